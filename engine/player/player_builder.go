package player

import (
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/node"

	"go.uber.org/zap"
)

// PlayerBuilderOption is a functional option for configuring a Player via NewPlayer.
type PlayerBuilderOption func(*player)

// WithData sets the baked skeleton data the player reads frames from.
//
// Parameters:
//   - data: the shared baked data
//
// Returns:
//   - PlayerBuilderOption: a function that applies the data option to a player
func WithData(data *baker.BakedSkeletonData) PlayerBuilderOption {
	return func(p *player) {
		p.data = data
	}
}

// WithNode sets the player node whose direct children are driven.
//
// Parameters:
//   - n: the player node
//
// Returns:
//   - PlayerBuilderOption: a function that applies the node option to a player
func WithNode(n node.Node) PlayerBuilderOption {
	return func(p *player) {
		p.root = n
	}
}

// WithClipName sets the clip picked up by the first Tick. Defaults to DefaultClipName.
//
// Parameters:
//   - name: the clip name
//
// Returns:
//   - PlayerBuilderOption: a function that applies the clip option to a player
func WithClipName(name string) PlayerBuilderOption {
	return func(p *player) {
		p.clipName = name
	}
}

// WithLogger sets the logger used to report unknown clips.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - PlayerBuilderOption: a function that applies the logger option to a player
func WithLogger(logger *zap.Logger) PlayerBuilderOption {
	return func(p *player) {
		if logger != nil {
			p.logger = logger
		}
	}
}
