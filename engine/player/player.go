package player

import (
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-gpuanim/common"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/material"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/node"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultClipName is the clip a player starts on when none is configured.
const DefaultClipName = "idle"

// State describes whether a player currently shows a clip.
type State int

const (
	// StateIdle means no clip is selected, or the selected name is unknown.
	StateIdle State = iota
	// StatePlaying means a clip frame is on screen.
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	default:
		return "idle"
	}
}

// player is the implementation of the Player interface.
type player struct {
	mu     sync.Mutex
	id     uuid.UUID
	logger *zap.Logger

	data      *baker.BakedSkeletonData
	boneCount int
	bones     map[string]int
	clips     map[string]*baker.BakedClip

	root node.Node

	clipName string
	time     float64

	// clip and frame are the last rendered pair.
	clip  *baker.BakedClip
	frame int
}

// Player drives one instance of a baked skeleton.
//
// The baked data is shared and never written. Every player owns its node tree, so the
// per-instance pixel offset written into one player's property blocks never affects another.
type Player interface {
	// ID returns the instance identifier.
	//
	// Returns:
	//   - uuid.UUID: the player id
	ID() uuid.UUID

	// Node returns the player's root node. Skinned surfaces and bone placeholders are its direct children.
	//
	// Returns:
	//   - node.Node: the player node
	Node() node.Node

	// Data returns the shared baked data.
	//
	// Returns:
	//   - *baker.BakedSkeletonData: the baked data
	Data() *baker.BakedSkeletonData

	// ClipNames returns the names of every playable clip in sorted order.
	//
	// Returns:
	//   - []string: the clip names
	ClipNames() []string

	// Play selects a clip by name, resets the playback time and renders frame 0 immediately.
	// An unknown name renders nothing; the last frame stays on screen and State reports StateIdle.
	//
	// Parameters:
	//   - name: the clip name
	Play(name string)

	// Tick advances playback time and renders the resulting frame if it changed.
	// Past the last frame, looping clips wrap to frame 0 and non-looping clips hold their last frame.
	// A negative delta rewinds, but never before 0.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the previous tick in seconds
	Tick(deltaTime float32)

	// Clip returns the selected clip name.
	//
	// Returns:
	//   - string: the clip name
	Clip() string

	// Frame returns the last rendered frame index.
	//
	// Returns:
	//   - int: the frame
	Frame() int

	// Time returns the accumulated playback time in seconds.
	//
	// Returns:
	//   - float32: the playback time
	Time() float32

	// State reports whether a clip is on screen.
	//
	// Returns:
	//   - State: StateIdle or StatePlaying
	State() State

	// GetMatrix returns the world placement of a bone in the current frame:
	// the player node's world matrix times the bone's baked world matrix.
	//
	// Parameters:
	//   - boneName: the bone name
	//
	// Returns:
	//   - mgl32.Mat4: the bone matrix, or identity if no clip is active or the bone is unknown
	GetMatrix(boneName string) mgl32.Mat4

	// AddWidget reparents n under the attachment placeholder of the named bone, creating the placeholder
	// as a direct child of the player node when it does not exist yet.
	//
	// Parameters:
	//   - n: the node to attach
	//   - boneName: the bone to attach to
	//
	// Returns:
	//   - bool: false if n is nil or the bone is unknown
	AddWidget(n node.Node, boneName string) bool
}

var _ Player = &player{}

// NewPlayer creates a new Player configured with the provided options.
// Without WithNode the player gets an empty node of its own.
//
// Parameters:
//   - options: variadic list of PlayerBuilderOption functions
//
// Returns:
//   - Player: the new player
func NewPlayer(options ...PlayerBuilderOption) Player {
	p := &player{
		id:       uuid.New(),
		logger:   zap.NewNop(),
		clipName: DefaultClipName,
		bones:    make(map[string]int),
		clips:    make(map[string]*baker.BakedClip),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.root == nil {
		p.root = node.NewNode(node.WithName("player"))
	}
	if p.data != nil {
		p.boneCount = len(p.data.BoneNames)
		for i, name := range p.data.BoneNames {
			p.bones[name] = i
		}
		for _, c := range p.data.Clips {
			if err := c.Validate(p.boneCount); err != nil {
				p.logger.Warn("skipping unplayable clip", zap.String("player", p.id.String()), zap.Error(err))
				continue
			}
			p.clips[c.Name] = c
		}
	}
	return p
}

// ResolveFrame maps a raw frame index onto the clip.
// Indices past the end wrap into [loopStartFrame, frameCount); a loopStartFrame of
// frameCount-1 therefore holds the last frame. Negative indices show frame 0, and a
// loopStartFrame outside the clip holds the last frame.
//
// Parameters:
//   - frameCount: the clip's frame count
//   - loopStartFrame: the clip's loop start frame
//   - raw: floor(time * frameRate)
//
// Returns:
//   - int: the frame to display
func ResolveFrame(frameCount, loopStartFrame, raw int) int {
	if frameCount <= 0 || raw <= 0 {
		return 0
	}
	if raw < frameCount {
		return raw
	}
	if loopStartFrame < 0 || loopStartFrame >= frameCount {
		loopStartFrame = frameCount - 1
	}
	return (raw-frameCount)%(frameCount-loopStartFrame) + loopStartFrame
}

func (p *player) ID() uuid.UUID {
	return p.id
}

func (p *player) Node() node.Node {
	return p.root
}

func (p *player) Data() *baker.BakedSkeletonData {
	return p.data
}

func (p *player) ClipNames() []string {
	names := make([]string, 0, len(p.clips))
	for name := range p.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *player) Play(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clipName = name
	p.time = 0
	clip := p.clips[name]
	if clip == nil {
		p.logger.Debug("unknown clip", zap.String("player", p.id.String()), zap.String("clip", name))
	}
	p.render(clip, 0)
}

func (p *player) Tick(deltaTime float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.time = max(p.time+float64(deltaTime), 0)
	clip := p.clips[p.clipName]
	if clip == nil {
		return
	}
	raw := int(p.time * float64(clip.FrameRate))
	p.render(clip, ResolveFrame(clip.FrameCount, clip.LoopStartFrame, raw))
}

func (p *player) Clip() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clipName
}

func (p *player) Frame() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

func (p *player) Time() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return float32(p.time)
}

func (p *player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clip == nil {
		return StateIdle
	}
	return StatePlaying
}

func (p *player) GetMatrix(boneName string) mgl32.Mat4 {
	p.mu.Lock()
	defer p.mu.Unlock()

	bone, ok := p.bones[boneName]
	if p.clip == nil || !ok {
		return mgl32.Ident4()
	}
	return p.root.WorldMatrix().Mul4(p.clip.Bones[bone].Frames[p.frame])
}

func (p *player) AddWidget(n node.Node, boneName string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	bone, ok := p.bones[boneName]
	if n == nil || !ok {
		return false
	}
	placeholder := p.child(boneName)
	if placeholder == nil {
		placeholder = node.NewNode(node.WithName(boneName), node.WithParent(p.root))
	}
	n.SetParent(placeholder)
	if p.clip != nil {
		p.posePlaceholder(placeholder, p.clip.Bones[bone].Frames[p.frame])
	}
	return true
}

// render applies (clip, frame) to the player's children unless it is already on screen.
// A nil clip is recorded but draws nothing, leaving the previous frame visible.
func (p *player) render(clip *baker.BakedClip, frame int) {
	if clip == p.clip && frame == p.frame {
		return
	}
	p.clip = clip
	p.frame = frame
	if clip == nil {
		return
	}

	start := float32(clip.FramePixelIndex(frame, p.boneCount))
	for _, child := range p.root.Children() {
		if s := child.Surface(); s != nil {
			if s.Skinned && s.Properties != nil {
				s.Properties.SetFloat(material.PropertyStartPixelIndex, start)
			}
			continue
		}
		if len(child.Children()) == 0 {
			continue
		}
		if bone, ok := p.bones[child.Name()]; ok {
			p.posePlaceholder(child, clip.Bones[bone].Frames[frame])
		}
	}
}

// posePlaceholder places an attachment node at the bone's frame matrix.
func (p *player) posePlaceholder(n node.Node, m mgl32.Mat4) {
	n.SetLocalRotation(common.LookRotation(m.Col(2).Vec3(), m.Col(1).Vec3()))
	n.SetLocalPosition(m.Col(3).Vec3())
}

func (p *player) child(name string) node.Node {
	for _, c := range p.root.Children() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
