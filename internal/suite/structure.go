package suite

import (
	"fmt"

	"qtdata.quanttide.cn/internal/workspace"
)

func runStructure(m *workspace.Manager) *Result {
	r := &Result{}

	missing := m.MissingDirectories()
	if len(missing) == 0 {
		r.pass("workspace_layout", fmt.Sprintf("all required directories present under %s", m.Root()))
		return r
	}

	for _, dir := range missing {
		r.fail("workspace_layout", fmt.Sprintf("missing required directory %s", dir))
	}
	return r
}
