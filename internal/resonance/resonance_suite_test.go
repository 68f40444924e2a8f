package resonance_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestResonance(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Resonance Suite")
}
