package resonance

import (
	"fmt"
	"math"

	"github.com/san-kum/trojansim/internal/celestial"
)

// Status is the monitor's verdict on the trojan pair.
type Status int

const (
	// Stable means the angular-rate deviation has stayed within the
	// margin on every update observed so far.
	Stable Status = iota

	// Broken means the deviation exceeded the margin at least once.
	// Terminal: the monitor never returns to Stable afterwards.
	Broken

	// Undetermined means no verdict is possible: the system designates
	// no trojan pair, or the companion's angular rate vanished for
	// zeroRateLimit consecutive updates. Terminal.
	Undetermined
)

func (s Status) String() string {
	switch s {
	case Stable:
		return "STABLE"
	case Broken:
		return "BROKEN"
	case Undetermined:
		return "UNDETERMINED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// zeroRateLimit is how many consecutive zero companion rates count as
// "persistently zero". A single zero update only skips that evaluation.
const zeroRateLimit = 16

// Verdict records the terminal outcome and, when a transition occurred,
// where it happened.
type Verdict struct {
	Status    Status
	Step      int     // update index of the transition, 0 if none
	Elapsed   float64 // simulated seconds at the transition
	Deviation float64 // percent deviation that latched Broken
}

// Monitor tracks the trojan pair's angular rates about the primary and
// latches the first departure from 1:1 resonance beyond the margin.
//
// Each update recomputes both bodies' angles in the XY plane about the
// current primary point, differences them against the previous update
// (unwrapped across the ±π boundary), and compares the rate ratio to 1.
// The first update only seeds the angles; no rate exists yet.
type Monitor struct {
	sys    *celestial.System
	margin float64

	trojan    int
	companion int
	monitored bool

	status  Status
	step    int
	elapsed float64
	verdict Verdict

	prevTrojan    float64
	prevCompanion float64
	seeded        bool
	zeroRun       int

	deviation float64
	hasRatio  bool
}

// NewMonitor designates the system's trojan pair for observation. A
// system without a complete pair yields a monitor that is permanently
// Undetermined and reports Monitored() == false.
func NewMonitor(sys *celestial.System, margin float64) (*Monitor, error) {
	if margin < 0 {
		return nil, fmt.Errorf("resonance: margin must be non-negative, got %v", margin)
	}
	m := &Monitor{sys: sys, margin: margin}
	m.trojan, m.companion, m.monitored = sys.TrojanPair()
	if !m.monitored {
		m.status = Undetermined
		m.verdict = Verdict{Status: Undetermined}
	}
	return m, nil
}

// Monitored reports whether a trojan pair is under observation. When
// false the status is Undetermined from construction and the caller
// should run to its horizon rather than stop.
func (m *Monitor) Monitored() bool { return m.monitored }

// Status returns the current verdict state without consuming an update.
func (m *Monitor) Status() Status { return m.status }

// Margin returns the percent tolerance the monitor was built with.
func (m *Monitor) Margin() float64 { return m.margin }

// Deviation returns the most recent percent deviation of the rate ratio
// from 1. ok is false until two updates have produced a ratio.
func (m *Monitor) Deviation() (dev float64, ok bool) {
	return m.deviation, m.hasRatio
}

// Verdict returns the outcome so far, including the transition point
// when the status latched Broken or Undetermined mid-run.
func (m *Monitor) Verdict() Verdict {
	if m.status == Stable {
		return Verdict{Status: Stable}
	}
	return m.verdict
}

// Update consumes the system state after one integration step of length
// dt and returns the resulting status. Once the status is terminal,
// updates are no-ops.
func (m *Monitor) Update(dt float64) Status {
	if !m.monitored || m.status != Stable {
		return m.status
	}

	m.step++
	m.elapsed += dt

	primary := m.sys.PrimaryPoint()
	trojan := angleAbout(m.sys.Bodies[m.trojan].Position, primary)
	companion := angleAbout(m.sys.Bodies[m.companion].Position, primary)

	if !m.seeded {
		m.prevTrojan, m.prevCompanion = trojan, companion
		m.seeded = true
		return m.status
	}

	wTrojan := wrapDelta(trojan-m.prevTrojan) / dt
	wCompanion := wrapDelta(companion-m.prevCompanion) / dt
	m.prevTrojan, m.prevCompanion = trojan, companion

	if wCompanion == 0 {
		m.zeroRun++
		if m.zeroRun >= zeroRateLimit {
			m.status = Undetermined
			m.verdict = Verdict{Status: Undetermined, Step: m.step, Elapsed: m.elapsed}
		}
		return m.status
	}
	m.zeroRun = 0

	m.deviation = math.Abs(wTrojan/wCompanion-1) * 100
	m.hasRatio = true

	if m.deviation > m.margin {
		m.status = Broken
		m.verdict = Verdict{
			Status:    Broken,
			Step:      m.step,
			Elapsed:   m.elapsed,
			Deviation: m.deviation,
		}
	}
	return m.status
}

// angleAbout is the planar angle of pos about origin, in (-π, π].
func angleAbout(pos, origin celestial.Vector3) float64 {
	return math.Atan2(pos.Y-origin.Y, pos.X-origin.X)
}

// wrapDelta maps an angle difference into (-π, π] so that crossing the
// atan2 branch cut does not register as a full revolution.
func wrapDelta(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
