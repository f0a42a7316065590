package app

import (
	"github.com/vk/nodewire/internal/behavior"
	"github.com/vk/nodewire/internal/vars"
	"github.com/vk/nodewire/modules/arith"
	"github.com/vk/nodewire/modules/compare"
	"github.com/vk/nodewire/modules/convert"
	"github.com/vk/nodewire/modules/logic"
	"github.com/vk/nodewire/modules/output"
	"github.com/vk/nodewire/modules/variables"
)

// coreModules is the builtin behavior set backing the core manifest
// palette. The variable module closes over the app's store.
func coreModules(store *vars.Store) []behavior.Module {
	return []behavior.Module{
		&arith.Module{},
		&compare.Module{},
		&convert.Module{},
		&logic.Module{},
		&output.Module{},
		&variables.Module{Store: store},
	}
}
