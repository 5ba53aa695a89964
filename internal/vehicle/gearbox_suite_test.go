package vehicle

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGearbox(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Gearbox Suite")
}
