package symbolic_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSymbolic(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Symbolic Suite")
}
