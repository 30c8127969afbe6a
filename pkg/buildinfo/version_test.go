package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version || info.Commit != Commit || info.Go == "" {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.Contains(Template(), Version) {
		t.Errorf("Template() = %q, want version %q", Template(), Version)
	}
}
