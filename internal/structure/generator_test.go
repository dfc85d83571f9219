package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/MineBot/bridge/internal/game"
)

var anchor = game.Position{X: 10, Y: 64, Z: 10}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{
			name: "cube",
			req:  Request{Template: TemplateCube, Width: 3, Height: 3, Depth: 3, Material: "stone"},
			want: []string{"fill 10 64 10 12 66 12 minecraft:stone"},
		},
		{
			name: "platform ignores height",
			req:  Request{Template: TemplatePlatform, Width: 4, Height: 9, Depth: 2, Material: "oak_planks"},
			want: []string{"fill 10 64 10 13 64 11 minecraft:oak_planks"},
		},
		{
			name: "house",
			req:  Request{Template: TemplateHouse, Width: 5, Height: 4, Depth: 5, Material: "stone"},
			want: []string{
				"fill 10 64 10 14 67 14 minecraft:stone",
				"fill 11 65 11 13 66 13 minecraft:air",
				"fill 12 65 10 12 66 10 minecraft:air",
			},
		},
		{
			name: "tower shares house geometry",
			req:  Request{Template: TemplateTower, Width: 3, Height: 10, Depth: 3, Material: "stone_bricks"},
			want: []string{
				"fill 10 64 10 12 73 12 minecraft:stone_bricks",
				"fill 11 65 11 11 72 11 minecraft:air",
				"fill 11 65 10 11 66 10 minecraft:air",
			},
		},
		{
			name: "house too small to hollow",
			req:  Request{Template: TemplateHouse, Width: 2, Height: 1, Depth: 2, Material: "stone"},
			want: []string{"fill 10 64 10 11 64 11 minecraft:stone"},
		},
		{
			name: "qualified material kept",
			req:  Request{Template: TemplateCube, Width: 1, Height: 1, Depth: 1, Material: "mymod:marble"},
			want: []string{"fill 10 64 10 10 64 10 mymod:marble"},
		},
		{
			name: "unknown template",
			req:  Request{Template: "castle", Width: 3, Height: 3, Depth: 3, Material: "stone"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.req, anchor)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	req := Request{Template: TemplateHouse, Width: 7, Height: 5, Depth: 6, Material: "bricks"}

	first := Generate(req, anchor)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Generate(req, anchor))
	}
}

func TestGeneratorBuildAppliesOffset(t *testing.T) {
	g := NewGenerator()
	got := g.Build(Request{Template: TemplateCube, Width: 3, Height: 3, Depth: 3, Material: "stone"}, game.Position{X: 8, Y: 64, Z: 8})

	require.Len(t, got, 1)
	assert.Equal(t, "fill 10 64 10 12 66 12 minecraft:stone", got[0])
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, game.Position{X: 2, Y: -5, Z: -1}, Anchor(game.Position{X: 0, Y: -5, Z: -3}, 2))
}

func TestQualifyMaterial(t *testing.T) {
	assert.Equal(t, "minecraft:stone", QualifyMaterial("stone"))
	assert.Equal(t, "minecraft:stone", QualifyMaterial("minecraft:stone"))
}

func TestKnownTemplate(t *testing.T) {
	for _, name := range []string{"cube", "house", "tower", "platform"} {
		assert.True(t, KnownTemplate(name), name)
	}
	assert.False(t, KnownTemplate("unknown-template"))
}
