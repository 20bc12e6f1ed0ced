package suite

import (
	"fmt"

	"qtdata.quanttide.cn/internal/registry"
	"qtdata.quanttide.cn/internal/workspace"
)

func runRegistry(m *workspace.Manager) *Result {
	r := &Result{}

	for _, kind := range []string{registry.KindDataset, registry.KindRecipe} {
		name := kind + "_archives"

		issues, err := registry.Verify(m.RegistryDir(), kind)
		if err != nil {
			r.fail(name, err.Error())
			continue
		}

		if len(issues) == 1 && issues[0] == fmt.Sprintf("no %s archives published", kind) {
			r.skip(name, issues[0])
			continue
		}
		if len(issues) > 0 {
			r.failAll(name, issues)
			continue
		}
		r.pass(name, "all archives verified against their manifests")
	}

	return r
}
