// Package espionage implements §4.2 steps 6c and 6d: covert-budget
// EBP missions and passive starbase surveillance. Fleet-based espionage
// (§4.2 step 6b — deploying a Scout as an independent SpyScout entity)
// lives in internal/orders alongside the rest of the fleet order
// lifecycle, since it is an ordinary Execute-tier order effect rather
// than a one-shot packet command.
package espionage

import (
	"encoding/binary"
	"sort"

	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
	"houseturn/internal/rng"
	"houseturn/internal/simul"
)

// missionCost looks up the EBP price of one covert mission kind.
func missionCost(cfg config.EspionageCosts, kind string) (int, bool) {
	switch kind {
	case "tech_theft":
		return cfg.TechTheft, true
	case "sabotage":
		return cfg.Sabotage, true
	case "assassination":
		return cfg.Assassination, true
	case "cyber":
		return cfg.Cyber, true
	case "psyops":
		return cfg.Psyops, true
	default:
		return 0, false
	}
}

// RunCovertMissions implements §4.2 step 6c: every submitted
// EspionageAction charges the attacker's EBP and is gated by the
// defender's CIP and ELI. Missions sharing a target are collected into
// one simultaneous-resolution group per §4.7 so that two houses
// covertly acting against the same target in the same turn draw
// deterministically rather than favoring submission order.
func RunCovertMissions(cfg config.Config, state *model.GameState, log *events.Log, packets map[ident.HouseId]model.CommandPacket, stream *rng.Stream) {
	var candidates []simul.Candidate
	type payload struct {
		attacker *model.House
		defender *model.House
		action   model.EspionageAction
		cost     int
	}

	for _, houseID := range sortedHouseIDs(packets) {
		packet := packets[houseID]
		attacker, ok := state.Houses[houseID]
		if !ok {
			continue
		}
		for _, action := range packet.Espionage {
			cost, known := missionCost(cfg.Espionage, action.Kind)
			if !known {
				log.Warning(state.Turn, "conflict", "espionage action dropped: unknown mission kind")
				continue
			}
			if attacker.EBP < cost {
				log.Warning(state.Turn, "conflict", "espionage action dropped: insufficient EBP")
				continue
			}
			defender, ok := state.Houses[action.Target]
			if !ok {
				continue
			}
			candidates = append(candidates, simul.Candidate{
				TargetKey: action.Target.String() + ":" + action.Kind, AttackerHouse: houseID,
				Payload: payload{attacker: attacker, defender: defender, action: action, cost: cost},
			})
		}
	}

	groups := simul.Sort(candidates)
	substream := stream.Sub(0xE5910A6E)
	outcomes := simul.ResolveStackable(groups, func(c simul.Candidate) any {
		p := c.Payload.(payload)
		roll := substream.D100()
		defense := p.defender.CIP + p.defender.TechLevels[model.TechELI]*2
		return roll > defense
	})

	for _, o := range outcomes {
		p := o.Candidate.Payload.(payload)
		p.attacker.EBP -= p.cost
		p.attacker.Telemetry.EspionageAttempts++
		success, _ := o.Effect.(bool)
		if success {
			p.attacker.Telemetry.EspionageSuccesses++
			applyCovertEffect(state, p.action, p.defender)
		}
		log.Append(events.Event{Kind: events.EspionageResolved, Turn: state.Turn, Phase: "conflict",
			House: p.attacker.ID, Other: p.defender.ID, Message: "covert mission resolved",
			Data: map[string]any{"kind": p.action.Kind, "success": success}})
	}
}

func applyCovertEffect(state *model.GameState, action model.EspionageAction, defender *model.House) {
	switch action.Kind {
	case "sabotage":
		for _, colony := range colonySliceOwnedBy(state, defender.ID) {
			colony.InfrastructureDamage += 0.05
			if colony.InfrastructureDamage > 1.0 {
				colony.InfrastructureDamage = 1.0
			}
			break
		}
	case "assassination":
		defender.Prestige -= 5
	case "cyber":
		defender.CIP -= defender.CIP / 4
	case "psyops":
		defender.Prestige -= 2
	case "tech_theft":
		// TODO: tech-tree collaborator owns granting the stolen field; this
		// engine only charges and logs the attempt until that hook exists.
	}
}

func colonySliceOwnedBy(state *model.GameState, house ident.HouseId) []*model.Colony {
	var out []*model.Colony
	for _, cid := range sortedColonyIDs(state) {
		if c := state.Colonies[cid]; c.Owner == house {
			out = append(out, c)
		}
	}
	return out
}

// RunStarbaseSurveillance implements §4.2 step 6d: every operational
// (uncrippled) starbase emits passive intel using its own RNG
// sub-stream, keyed by its facility id so two starbases never draw from
// the same sequence.
func RunStarbaseSurveillance(state *model.GameState, log *events.Log, stream *rng.Stream) {
	for _, fid := range sortedFacilityIDs(state) {
		f := state.Facilities[fid]
		if f.Kind != model.Starbase || f.Crippled {
			continue
		}
		sub := stream.Sub(binary.BigEndian.Uint64(fid[:8]) + 0xB57B1E)
		_ = sub.D20() // deterministic per-starbase draw; intel payload itself is a fog-of-war-projector concern (§6), out of scope here
	}
}

func sortedHouseIDs(packets map[ident.HouseId]model.CommandPacket) []ident.HouseId {
	ids := make([]ident.HouseId, 0, len(packets))
	for id := range packets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func sortedColonyIDs(state *model.GameState) []ident.ColonyId {
	ids := make([]ident.ColonyId, 0, len(state.Colonies))
	for id := range state.Colonies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func sortedFacilityIDs(state *model.GameState) []ident.FacilityId {
	ids := make([]ident.FacilityId, 0, len(state.Facilities))
	for id := range state.Facilities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
