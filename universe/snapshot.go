package universe

import (
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
)

// HostileState is one raider's persisted state.
type HostileState struct {
	ID       uint32     `json:"id"`
	Hull     float32    `json:"hull"`
	Cooldown float32    `json:"cooldown"`
	Anchor   rl.Vector3 `json:"anchor"`
	Phase    float32    `json:"phase"`
}

// DebrisState is one fragment's persisted state.
type DebrisState struct {
	Position rl.Vector3 `json:"position"`
	Velocity rl.Vector3 `json:"velocity"`
}

// TorpedoState is one live torpedo's persisted state.
type TorpedoState struct {
	Position  rl.Vector3 `json:"position"`
	Velocity  rl.Vector3 `json:"velocity"`
	Travelled float32    `json:"travelled"`
}

// State is the persisted sector. Bodies are rebuilt from configuration
// and are not part of it.
type State struct {
	Hostiles      []HostileState `json:"hostiles"`
	Debris        []DebrisState  `json:"debris"`
	Torpedoes     []TorpedoState `json:"torpedoes"`
	NextHostileID uint32         `json:"next_hostile_id"`
}

// Snapshot captures the sector's dynamic contents.
func (u *Universe) Snapshot() State {
	st := State{NextHostileID: u.nextHostileID}

	hq := u.hostileFilter.Query()
	for hq.Next() {
		_, _, h := hq.Get()
		st.Hostiles = append(st.Hostiles, HostileState{
			ID:       h.ID,
			Hull:     h.Hull,
			Cooldown: h.Cooldown,
			Anchor:   h.Anchor,
			Phase:    h.Phase,
		})
	}
	sort.Slice(st.Hostiles, func(i, j int) bool { return st.Hostiles[i].ID < st.Hostiles[j].ID })

	dq := u.debrisFilter.Query()
	for dq.Next() {
		pos, vel, _ := dq.Get()
		st.Debris = append(st.Debris, DebrisState{Position: pos.Vec, Velocity: vel.Vec})
	}

	tq := u.torpedoFilter.Query()
	for tq.Next() {
		pos, vel, torp := tq.Get()
		st.Torpedoes = append(st.Torpedoes, TorpedoState{
			Position:  pos.Vec,
			Velocity:  vel.Vec,
			Travelled: torp.Travelled,
		})
	}
	return st
}

// Restore replaces the sector's dynamic contents with a previously
// captured state. Bodies are reseeded from configuration.
func (u *Universe) Restore(st State) {
	u.clear()
	u.seedBodies()

	u.nextHostileID = 0
	for _, h := range st.Hostiles {
		u.spawnHostile(Hostile{
			ID:       h.ID,
			Hull:     h.Hull,
			Cooldown: h.Cooldown,
			Anchor:   h.Anchor,
			Phase:    h.Phase,
		})
	}
	if st.NextHostileID > u.nextHostileID {
		u.nextHostileID = st.NextHostileID
	}

	for _, d := range st.Debris {
		pos := Position{Vec: d.Position}
		vel := Velocity{Vec: d.Velocity}
		deb := Debris{}
		u.debrisMapper.NewEntity(&pos, &vel, &deb)
	}

	for _, t := range st.Torpedoes {
		pos := Position{Vec: t.Position}
		vel := Velocity{Vec: t.Velocity}
		torp := Torpedo{Travelled: t.Travelled}
		u.torpedoMapper.NewEntity(&pos, &vel, &torp)
	}
}

func (u *Universe) clear() {
	var all []ecs.Entity

	bq := u.bodyFilter.Query()
	for bq.Next() {
		all = append(all, bq.Entity())
	}
	hq := u.hostileFilter.Query()
	for hq.Next() {
		all = append(all, hq.Entity())
	}
	dq := u.debrisFilter.Query()
	for dq.Next() {
		all = append(all, dq.Entity())
	}
	tq := u.torpedoFilter.Query()
	for tq.Next() {
		all = append(all, tq.Entity())
	}

	for _, e := range all {
		u.world.RemoveEntity(e)
	}
}
