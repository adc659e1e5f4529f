package tidy

import "fmt"

// version information, set at link time:
//
//	go build -ldflags "-X github.com/gvelasq2/rlang/tidy.GITLASTTAG=$(git describe --abbrev=0 --tags)"
var GITLASTTAG string
var GITLASTCOMMIT string

func Version() string {
	if GITLASTTAG == "" && GITLASTCOMMIT == "" {
		return "devel"
	}
	return fmt.Sprintf("%s/%s", GITLASTTAG, GITLASTCOMMIT)
}
