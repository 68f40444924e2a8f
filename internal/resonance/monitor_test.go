package resonance_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trojansim/internal/celestial"
	"github.com/san-kum/trojansim/internal/resonance"
)

// pairSystem is a star at the origin with a giant and a trojan on unit
// circles around it. The tests move the planets along their circles by
// hand, so no integrator noise enters the angular-rate math.
func pairSystem() *celestial.System {
	return celestial.NewSystem([]celestial.Body{
		{Kind: celestial.Star, Name: "primary", Mass: 1},
		{Kind: celestial.Giant, Name: "companion", Mass: 1e-3, Position: celestial.Vector3{X: 1}},
		{Kind: celestial.Terrestrial, Name: "trojan", Trojan: true, Mass: 1e-9,
			Position: celestial.Vector3{X: math.Cos(math.Pi / 3), Y: math.Sin(math.Pi / 3)}},
	})
}

// rotator drives the pair along their circles between updates,
// accumulating phase so consecutive calls stay continuous.
type rotator struct {
	sys            *celestial.System
	mon            *resonance.Monitor
	dt             float64
	phaseC, phaseT float64
}

func (r *rotator) place() {
	r.sys.Bodies[1].Position = celestial.Vector3{X: math.Cos(r.phaseC), Y: math.Sin(r.phaseC)}
	r.sys.Bodies[2].Position = celestial.Vector3{X: math.Cos(r.phaseT), Y: math.Sin(r.phaseT)}
}

// spin advances the companion at rate wc and the trojan at rate wt for n
// updates, returning the last status.
func (r *rotator) spin(n int, wc, wt float64) resonance.Status {
	st := r.mon.Status()
	for i := 0; i < n; i++ {
		r.phaseC += wc * r.dt
		r.phaseT += wt * r.dt
		r.place()
		st = r.mon.Update(r.dt)
	}
	return st
}

// stall freezes the companion while the trojan keeps moving.
func (r *rotator) stall(n int, wt float64) resonance.Status {
	st := r.mon.Status()
	for i := 0; i < n; i++ {
		r.phaseT += wt * r.dt
		r.place()
		st = r.mon.Update(r.dt)
	}
	return st
}

var _ = Describe("Monitor", func() {
	const dt = 0.25

	var (
		sys *celestial.System
		rot *rotator
	)

	BeforeEach(func() {
		sys = pairSystem()
		rot = &rotator{sys: sys, dt: dt, phaseC: 0, phaseT: math.Pi / 3}
	})

	monitor := func(margin float64) *resonance.Monitor {
		mon, err := resonance.NewMonitor(sys, margin)
		Expect(err).NotTo(HaveOccurred())
		rot.mon = mon
		return mon
	}

	Describe("construction", func() {
		It("rejects a negative margin", func() {
			_, err := resonance.NewMonitor(sys, -0.1)
			Expect(err).To(HaveOccurred())
		})

		It("starts Stable with a designated pair", func() {
			mon := monitor(1.0)
			Expect(mon.Monitored()).To(BeTrue())
			Expect(mon.Status()).To(Equal(resonance.Stable))
			Expect(mon.Margin()).To(Equal(1.0))
		})

		It("is Undetermined from the start without a trojan", func() {
			bare := celestial.NewSystem([]celestial.Body{
				{Kind: celestial.Star, Mass: 1},
				{Kind: celestial.Giant, Mass: 1e-3, Position: celestial.Vector3{X: 1}},
			})
			mon, err := resonance.NewMonitor(bare, 1.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(mon.Monitored()).To(BeFalse())
			Expect(mon.Status()).To(Equal(resonance.Undetermined))

			// Updates are no-ops; the verdict never changes.
			Expect(mon.Update(dt)).To(Equal(resonance.Undetermined))
			Expect(mon.Verdict().Step).To(BeZero())
		})
	})

	Describe("co-rotating pair", func() {
		It("stays Stable when the rates match", func() {
			mon := monitor(0.001)
			Expect(rot.spin(400, 1.0, 1.0)).To(Equal(resonance.Stable))

			dev, ok := mon.Deviation()
			Expect(ok).To(BeTrue())
			Expect(dev).To(BeNumerically("<", 1e-9))
		})

		It("survives the ±π angle wrap", func() {
			monitor(0.001)
			// Start just short of the negative-x axis so both bodies
			// cross the atan2 branch cut within a few updates.
			rot.phaseC = math.Pi - 0.2
			rot.phaseT = math.Pi - 0.2 + math.Pi/3
			Expect(rot.spin(40, 0.1, 0.1)).To(Equal(resonance.Stable))
		})

		It("only seeds angles on the first update", func() {
			mon := monitor(1.0)
			Expect(rot.spin(1, 1.0, 1.0)).To(Equal(resonance.Stable))
			_, ok := mon.Deviation()
			Expect(ok).To(BeFalse(), "no rate ratio can exist after one update")
		})
	})

	Describe("breaking resonance", func() {
		It("latches Broken on the first excess deviation", func() {
			mon := monitor(5.0)
			// 10% rate mismatch against a 5% margin: the first real
			// evaluation (update 2) must break.
			Expect(rot.spin(2, 1.0, 1.1)).To(Equal(resonance.Broken))

			v := mon.Verdict()
			Expect(v.Status).To(Equal(resonance.Broken))
			Expect(v.Step).To(Equal(2))
			Expect(v.Elapsed).To(BeNumerically("~", 2*dt, 1e-12))
			Expect(v.Deviation).To(BeNumerically("~", 10, 0.01))
		})

		It("never reverts to Stable", func() {
			mon := monitor(5.0)
			rot.spin(2, 1.0, 1.1)
			Expect(mon.Status()).To(Equal(resonance.Broken))

			broken := mon.Verdict()

			// Perfect co-rotation afterwards must not clear the latch.
			Expect(rot.spin(100, 1.0, 1.0)).To(Equal(resonance.Broken))
			Expect(mon.Verdict()).To(Equal(broken))
		})

		It("respects the margin", func() {
			monitor(15.0)
			Expect(rot.spin(50, 1.0, 1.1)).To(Equal(resonance.Stable),
				"10%% deviation sits within a 15%% margin")

			sys = pairSystem()
			rot = &rotator{sys: sys, dt: dt, phaseC: 0, phaseT: math.Pi / 3}
			monitor(5.0)
			Expect(rot.spin(50, 1.0, 1.1)).To(Equal(resonance.Broken))
		})
	})

	Describe("stationary companion", func() {
		It("turns Undetermined once the zero rate persists", func() {
			mon := monitor(1.0)
			rot.spin(1, 1.0, 1.0) // seed

			Expect(rot.stall(15, 0.04)).To(Equal(resonance.Stable))
			Expect(rot.stall(1, 0.04)).To(Equal(resonance.Undetermined))

			v := mon.Verdict()
			Expect(v.Status).To(Equal(resonance.Undetermined))
			Expect(v.Step).To(Equal(17))
		})

		It("tolerates a momentary stall", func() {
			mon := monitor(1.0)
			rot.spin(5, 1.0, 1.0)
			Expect(rot.stall(4, 0.01)).To(Equal(resonance.Stable))

			// Motion resumes; the zero-run counter must reset.
			Expect(rot.spin(30, 1.0, 1.0)).To(Equal(resonance.Stable))
			Expect(mon.Status()).To(Equal(resonance.Stable))
		})
	})
})

var _ = Describe("Status", func() {
	It("names every state", func() {
		Expect(resonance.Stable.String()).To(Equal("STABLE"))
		Expect(resonance.Broken.String()).To(Equal("BROKEN"))
		Expect(resonance.Undetermined.String()).To(Equal("UNDETERMINED"))
	})
})
