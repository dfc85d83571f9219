package structure

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/MineBot/bridge/internal/game"
)

// Template names understood by the generator.
const (
	TemplateCube     = "cube"
	TemplateHouse    = "house"
	TemplateTower    = "tower"
	TemplatePlatform = "platform"
)

const (
	// DefaultNamespace qualifies bare material names.
	DefaultNamespace = "minecraft"
	// DefaultOffset places structures in front of the player on both horizontal axes.
	DefaultOffset = 2

	air = "minecraft:air"
)

// Request describes one structure to build.
type Request struct {
	Template string
	Width    int
	Height   int
	Depth    int
	Material string
}

// KnownTemplate reports whether the generator has geometry for name
func KnownTemplate(name string) bool {
	switch name {
	case TemplateCube, TemplateHouse, TemplateTower, TemplatePlatform:
		return true
	}
	return false
}

// QualifyMaterial prefixes the default namespace when material has none
func QualifyMaterial(material string) string {
	if strings.Contains(material, ":") {
		return material
	}
	return DefaultNamespace + ":" + material
}

// Anchor is the structure's minimum corner: offset from the actor on the
// horizontal axes, same vertical layer.
func Anchor(actor game.Position, offset int) game.Position {
	return actor.Add(offset, 0, offset)
}

// Generate turns a request into fill commands anchored at anchor.
// Output is deterministic; an unknown template yields no commands.
func Generate(req Request, anchor game.Position) []string {
	mat := QualifyMaterial(req.Material)
	far := anchor.Add(req.Width-1, req.Height-1, req.Depth-1)

	switch req.Template {
	case TemplateCube:
		return []string{fill(anchor, far, mat)}
	case TemplatePlatform:
		return []string{fill(anchor, game.Position{X: far.X, Y: anchor.Y, Z: far.Z}, mat)}
	case TemplateHouse, TemplateTower:
		return shell(req, anchor, far, mat)
	default:
		return []string{}
	}
}

// shell is a solid box. When it has an interior it is hollowed and gets a
// doorway two blocks tall centred on the front (minimum z) face.
func shell(req Request, anchor, far game.Position, mat string) []string {
	cmds := []string{fill(anchor, far, mat)}
	if req.Width <= 2 || req.Height <= 1 || req.Depth <= 2 {
		return cmds
	}

	cmds = append(cmds, fill(anchor.Add(1, 1, 1), far.Add(-1, -1, -1), air))

	door := game.Position{X: anchor.X + req.Width/2, Y: anchor.Y + 1, Z: anchor.Z}
	return append(cmds, fill(door, door.Add(0, 1, 0), air))
}

func fill(from, to game.Position, material string) string {
	return fmt.Sprintf("fill %d %d %d %d %d %d %s", from.X, from.Y, from.Z, to.X, to.Y, to.Z, material)
}

// Generator anchors requests relative to the actor's position.
type Generator struct {
	Offset int
}

// NewGenerator creates a generator with the default offset
func NewGenerator() *Generator {
	return &Generator{Offset: DefaultOffset}
}

// Build generates the commands for req in front of actor
func (g *Generator) Build(req Request, actor game.Position) []string {
	return Generate(req, Anchor(actor, g.Offset))
}
