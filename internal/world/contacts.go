package world

import (
	"sports-arena/internal/game"
	"sports-arena/internal/game/spatial"
)

// pairKey is an ordered contact: notifications go to self.
type pairKey struct {
	self, other game.ObjectID
}

// contacts compares this step's overlaps with the last step's and emits
// enter, stay and exit notifications. Static objects never receive any.
// Stay is reported only between two dynamic objects.
func (w *World) contacts(movers []*game.Object) []game.Contact {
	now := make(map[pairKey]bool, len(w.touching))
	skin := w.cfg.Skin

	for _, pr := range w.sap.Update(inflate(intervals(movers), skin)) {
		a, b := w.arena.Get(game.ObjectID(pr.A)), w.arena.Get(game.ObjectID(pr.B))
		if a == nil || b == nil {
			continue
		}
		if a.Pose.Position.Sub(b.Pose.Position).Len() <= radiusOf(a)+radiusOf(b)+skin {
			now[pairKey{a.ID, b.ID}] = false
			now[pairKey{b.ID, a.ID}] = false
		}
	}

	floor := w.arena.Get(w.arena.Floor)
	for _, o := range movers {
		r := radiusOf(o)
		p := o.Pose.Position
		if floor != nil && p.Y-r <= floor.Pose.Position.Y+skin {
			now[pairKey{o.ID, floor.ID}] = false
		}
		for _, id := range w.statics.QueryRadius(p.X, p.Z, r+skin) {
			s := w.arena.Get(game.ObjectID(id))
			if s == nil {
				continue
			}
			if boxOf(s).sphereOverlaps(p, r, skin) {
				now[pairKey{o.ID, s.ID}] = s.Kind == game.KindZone
			}
		}
	}

	var out []game.Contact
	for k, trigger := range now {
		phase := game.ContactEnter
		if _, ok := w.touching[k]; ok {
			if !w.dynamicPair(k) {
				continue
			}
			phase = game.ContactStay
		}
		out = append(out, game.Contact{Self: k.self, Other: k.other, Phase: phase, Trigger: trigger})
	}
	for k, trigger := range w.touching {
		if _, ok := now[k]; ok {
			continue
		}
		if w.arena.Get(k.self) == nil {
			continue
		}
		out = append(out, game.Contact{Self: k.self, Other: k.other, Phase: game.ContactExit, Trigger: trigger})
	}
	w.touching = now

	sortContacts(out)
	return out
}

func (w *World) dynamicPair(k pairKey) bool {
	a, b := w.arena.Get(k.self), w.arena.Get(k.other)
	return a != nil && b != nil && a.Dynamic() && b.Dynamic()
}

func inflate(items []spatial.Interval, by float64) []spatial.Interval {
	for i := range items {
		items[i].MinX -= by
		items[i].MaxX += by
		items[i].MinZ -= by
		items[i].MaxZ += by
	}
	return items
}
