package main

import (
	"fmt"

	"sports-arena/internal/config"
	"sports-arena/internal/game"
)

const (
	wallHeight     = 2.0
	wallThickness  = 1.0
	goalWidth      = 6.0
	goalDepth      = 2.0
	playersPerTeam = 3
)

// seedArena lays out a pitch: floor, four walls, a goal zone at each end,
// a few players per team and one ball at the center spot.
func seedArena(e *game.Engine, cfg config.ArenaConfig, tuning config.Tuning) (int, error) {
	hw, hd := cfg.Width/2, cfg.Depth/2
	player, ball := tuning.Player, tuning.Ball

	specs := []game.SpawnOptions{
		{Name: "Pitch", Kind: "floor", Scale: game.V3(cfg.Width, 0, cfg.Depth)},
		{Name: "North Wall", Kind: "field", Position: game.V3(0, wallHeight/2, -hd-wallThickness/2), Scale: game.V3(cfg.Width+2*wallThickness, wallHeight, wallThickness)},
		{Name: "South Wall", Kind: "field", Position: game.V3(0, wallHeight/2, hd+wallThickness/2), Scale: game.V3(cfg.Width+2*wallThickness, wallHeight, wallThickness)},
		{Name: "West Wall", Kind: "field", Position: game.V3(-hw-wallThickness/2, wallHeight/2, 0), Scale: game.V3(wallThickness, wallHeight, cfg.Depth)},
		{Name: "East Wall", Kind: "field", Position: game.V3(hw+wallThickness/2, wallHeight/2, 0), Scale: game.V3(wallThickness, wallHeight, cfg.Depth)},
		{Name: "West Goal", Kind: "zone", Team: 0, Position: game.V3(-hw+goalDepth/2, 1, 0), Scale: game.V3(goalDepth, 2, goalWidth)},
		{Name: "East Goal", Kind: "zone", Team: 1, Position: game.V3(hw-goalDepth/2, 1, 0), Scale: game.V3(goalDepth, 2, goalWidth)},
		{Name: "Ball", Kind: "ball", Position: game.V3(0, 0.5, 0), Scale: game.V3(0.5, 0.5, 0.5), Ball: &ball},
	}

	for team := range cfg.Teams {
		side := -1.0
		yaw := 90.0
		if team%2 == 1 {
			side, yaw = 1, 270
		}
		for i := 0; i < playersPerTeam; i++ {
			z := (float64(i) - float64(playersPerTeam-1)/2) * cfg.Depth / (playersPerTeam + 1)
			specs = append(specs, game.SpawnOptions{
				Name:     fmt.Sprintf("%s %d", cfg.Teams[team], i+1),
				Kind:     "player",
				Team:     team,
				Position: game.V3(side*hw/2, 1, z),
				Yaw:      yaw,
				Scale:    game.V3(1, 2, 1),
				Player:   &player,
			})
		}
	}

	for _, s := range specs {
		if _, err := e.Spawn(s); err != nil {
			return 0, fmt.Errorf("spawn %s: %w", s.Name, err)
		}
	}
	return len(specs), nil
}
