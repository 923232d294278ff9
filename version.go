package sigswap

import "fmt"

// Release numbers.
const (
	Maj = 0
	Min = 1
	Fix = 0
)

// Suffix marks builds that are not a tagged release.
const Suffix = "-dev"

// GitCommit is injected at build time with
// -ldflags "-X github.com/iov-one/sigswap.GitCommit=<sha>".
var GitCommit = ""

// Version returns the release string reported by Info and the version
// command.
func Version() string {
	if GitCommit == "" {
		return fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	}
	return fmt.Sprintf("v%d.%d.%d%s %s", Maj, Min, Fix, Suffix, GitCommit)
}
