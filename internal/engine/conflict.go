package engine

import (
	"sort"

	"houseturn/internal/combat"
	"houseturn/internal/config"
	"houseturn/internal/espionage"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
	"houseturn/internal/orders"
	"houseturn/internal/rng"
	"houseturn/internal/simul"
	"houseturn/internal/starmap"
)

// runConflict executes the seven sub-steps of §4.2 in order, state
// flowing through rather than around: detection gates combat, combat
// results are observable before blockade/planetary resolution run,
// and so on through colonization, espionage, and scout travel.
func runConflict(cfg config.Config, state *model.GameState, log *events.Log, packets map[ident.HouseId]model.CommandPacket, graph *starmap.Graph, stream *rng.Stream, resolver combat.Resolver, idGen *ident.Generator) []combat.Report {
	detectSpyScouts(state, log, stream)
	reports := resolveSpaceCombat(state, log, stream, resolver)
	resolveBlockades(state, log)
	resolvePlanetaryCombat(state, log)
	orders.RunColonize(state, log, graph, idGen)
	espionage.RunCovertMissions(cfg, state, log, packets, stream)
	espionage.RunStarbaseSurveillance(state, log, stream.Sub(0x57A5B45E))
	orders.DeploySpyScouts(state, log, graph, idGen)
	advanceSpyScoutTravel(state, log, stream)
	return reports
}

// detectSpyScouts implements §4.2 step 1: every active scout at a
// system containing hostile fleets rolls for detection, iterating
// scouts in scout-id order so the shared RNG stream is consumed
// deterministically.
func detectSpyScouts(state *model.GameState, log *events.Log, stream *rng.Stream) {
	for _, sid := range sortedSpyScoutIDs(state) {
		scout := state.SpyScouts[sid]
		if scout.State == model.ScoutDetected {
			continue
		}
		if !systemHasHostilesTo(state, scout.CurrentSystem(), scout.Owner) {
			continue
		}

		defenderELI, starbaseBonus := defenderDetectionBonus(state, scout.CurrentSystem(), scout.Owner)
		threshold := 15 - scout.MergedScoutCount + defenderELI + starbaseBonus
		roll := stream.D20()
		if roll >= threshold {
			scout.State = model.ScoutDetected
			log.Append(events.Event{Kind: events.SpyScoutDetected, Turn: state.Turn, Phase: "conflict",
				House: scout.Owner, System: scout.CurrentSystem(), Message: "spy scout detected"})
		}
	}
}

func systemHasHostilesTo(state *model.GameState, system ident.SystemId, owner ident.HouseId) bool {
	house, ok := state.Houses[owner]
	if !ok {
		return false
	}
	for _, f := range state.FleetsAt(system) {
		if f.Owner != owner && house.IsHostileTo(f.Owner) {
			return true
		}
	}
	return false
}

// defenderDetectionBonus returns the ELI tech level of the house owning
// the colony at system (0 when there is no colony there or the scout's
// own house owns it) plus a flat bonus of 2 if that colony has a
// Starbase, used by the detection roll's threshold.
func defenderDetectionBonus(state *model.GameState, system ident.SystemId, excluding ident.HouseId) (int, int) {
	colony := state.ColonyAt(system)
	if colony == nil || colony.Owner == excluding {
		return 0, 0
	}
	house, ok := state.Houses[colony.Owner]
	if !ok {
		return 0, 0
	}
	starbaseBonus := 0
	if colony.HasFacilityKind(state.Facilities, model.Starbase) {
		starbaseBonus = 2
	}
	return house.TechLevels[model.TechELI], starbaseBonus
}

func sortedSpyScoutIDs(state *model.GameState) []ident.SpyScoutId {
	ids := make([]ident.SpyScoutId, 0, len(state.SpyScouts))
	for id := range state.SpyScouts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// resolveSpaceCombat implements §4.2 step 2: every system with ≥2
// houses in a Hostile/Enemy relationship is resolved by the combat
// collaborator, in deterministic system-id order. There is no cloak
// model: every non-mothballed fleet present joins the combatant roster,
// and no stealth gating is applied.
func resolveSpaceCombat(state *model.GameState, log *events.Log, stream *rng.Stream, resolver combat.Resolver) []combat.Report {
	var reports []combat.Report
	for _, sysID := range sortedSystemIDsWithHostileFleets(state) {
		sides := combatantsAt(state, sysID)
		if len(sides) < 2 {
			continue
		}
		report := resolver.ResolveCombat(sysID, sides, stream)
		reports = append(reports, report)
		log.Append(events.Event{Kind: events.CombatResolved, Turn: state.Turn, Phase: "conflict", System: sysID,
			Message: "combat resolved", Data: map[string]any{"rounds": report.Rounds}})
		applyCombatReport(state, log, report)
	}
	return reports
}

func combatantsAt(state *model.GameState, system ident.SystemId) []combat.Combatant {
	byHouse := map[ident.HouseId][]*model.Fleet{}
	for _, f := range state.FleetsAt(system) {
		if f.Status != model.FleetMothballed {
			byHouse[f.Owner] = append(byHouse[f.Owner], f)
		}
	}

	var houseIDs []ident.HouseId
	hostilePresent := false
	for h := range byHouse {
		houseIDs = append(houseIDs, h)
	}
	sort.Slice(houseIDs, func(i, j int) bool { return houseIDs[i].String() < houseIDs[j].String() })
	for i, a := range houseIDs {
		ha, ok := state.Houses[a]
		if !ok {
			continue
		}
		for _, b := range houseIDs[i+1:] {
			if ha.IsHostileTo(b) {
				hostilePresent = true
			}
		}
	}
	if !hostilePresent {
		return nil
	}

	var sides []combat.Combatant
	colony := state.ColonyAt(system)
	for _, h := range houseIDs {
		sort.Slice(byHouse[h], func(i, j int) bool { return byHouse[h][i].ID.String() < byHouse[h][j].ID.String() })
		side := combat.Combatant{House: h, Fleets: byHouse[h]}
		if colony != nil && colony.Owner == h {
			side.GroundDefense = &colony.GroundUnits
		}
		sides = append(sides, side)
	}
	return sides
}

func sortedSystemIDsWithHostileFleets(state *model.GameState) []ident.SystemId {
	ids := make([]ident.SystemId, 0, len(state.Systems))
	for id := range state.Systems {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// applyCombatReport destroys every fleet the resolver named and prunes
// any pending order left orphaned by the deletion (§3's pending-order
// consistency invariant).
func applyCombatReport(state *model.GameState, log *events.Log, report combat.Report) {
	for _, fid := range report.Destroyed {
		if f, ok := state.Fleets[fid]; ok {
			log.Append(events.Event{Kind: events.FleetDestroyed, Turn: state.Turn, Phase: "conflict", House: f.Owner,
				Fleet: fid, System: report.System, Message: "fleet destroyed in combat"})
		}
		state.DeleteFleet(fid)
	}
}

// resolveBlockades implements §4.2 step 3: every Blockade order whose
// fleet is at a hostile-owned target colony with combat ships is
// applied, in fleet-id order. It does not go through internal/simul:
// blockade is a set-membership effect, not a single-winner claim, and
// every qualifying blockader of the same colony succeeds.
func resolveBlockades(state *model.GameState, log *events.Log) {
	for _, fid := range sortedBlockadeFleetIDs(state) {
		order := state.FleetOrders[fid]
		fleet, ok := state.Fleets[fid]
		if !ok || fleet.System != order.TargetSystem || !fleet.HasCombatShips() {
			continue
		}
		colony := state.ColonyAt(order.TargetSystem)
		if colony == nil {
			continue
		}
		attacker, ok := state.Houses[fleet.Owner]
		if !ok || !attacker.IsHostileTo(colony.Owner) {
			continue
		}

		colony.Blockade.Blockaded = true
		if colony.Blockade.BlockadedBy == nil {
			colony.Blockade.BlockadedBy = map[ident.HouseId]bool{}
		}
		colony.Blockade.BlockadedBy[fleet.Owner] = true
		colony.Blockade.ConsecutiveTurns++

		order.State = model.StateCompleted
		log.Append(events.Event{Kind: events.ColonyBlockaded, Turn: state.Turn, Phase: "conflict", House: fleet.Owner,
			Colony: colony.ID, Fleet: fid, Message: "colony blockaded"})
	}
}

func sortedBlockadeFleetIDs(state *model.GameState) []ident.FleetId {
	var ids []ident.FleetId
	for id, o := range state.FleetOrders {
		if o.Type == model.OrderBlockade {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// groundAssaultPayload carries the per-candidate context a §4.7
// simultaneous-resolution group needs to judge and apply an
// Invade/Blitz order once the group's candidates are sorted.
type groundAssaultPayload struct {
	fleet  *model.Fleet
	order  *model.Order
	colony *model.Colony
}

// resolvePlanetaryCombat implements §4.2 step 4: Bombard/Invade/Blitz
// orders targeting the same colony are collected per-target and
// resolved through internal/simul rather than mutated in place one
// fleet at a time, so two hostile houses invading the same colony in
// one turn are both judged against the colony's pre-resolution ground
// forces instead of the second attacker seeing the first attacker's
// already-spent defenses (§4.7). Bombard is stackable — every
// bombarding fleet's damage applies regardless of what else targets
// the colony this turn — while Invade/Blitz is winner-takes-all for
// the colony itself even when more than one attacker's force would
// have been sufficient on its own.
func resolvePlanetaryCombat(state *model.GameState, log *events.Log) {
	var bombardCandidates []simul.Candidate
	var assaultCandidates []simul.Candidate

	for _, fid := range sortedPlanetaryFleetIDs(state) {
		order := state.FleetOrders[fid]
		fleet, ok := state.Fleets[fid]
		if !ok || fleet.System != order.TargetSystem {
			continue
		}
		colony := state.ColonyAt(order.TargetSystem)
		if colony == nil {
			continue
		}
		attacker, ok := state.Houses[fleet.Owner]
		if !ok || !attacker.IsHostileTo(colony.Owner) {
			order.State = model.StateFailed
			continue
		}

		payload := groundAssaultPayload{fleet: fleet, order: order, colony: colony}
		candidate := simul.Candidate{TargetKey: colony.ID.String(), AttackerHouse: fleet.Owner, Fleet: fid, Payload: payload}
		if order.Type == model.OrderBombard {
			bombardCandidates = append(bombardCandidates, candidate)
		} else {
			assaultCandidates = append(assaultCandidates, candidate)
		}
	}

	simul.ResolveStackable(simul.Sort(bombardCandidates), func(c simul.Candidate) any {
		p := c.Payload.(groundAssaultPayload)
		p.colony.InfrastructureDamage += 0.10
		if p.colony.InfrastructureDamage > 1.0 {
			p.colony.InfrastructureDamage = 1.0
		}
		p.order.State = model.StateCompleted
		log.Append(events.Event{Kind: events.InvasionResolved, Turn: state.Turn, Phase: "conflict",
			House: p.fleet.Owner, Colony: p.colony.ID, Fleet: p.fleet.ID, Message: "bombardment resolved"})
		return nil
	})

	for _, group := range simul.Sort(assaultCandidates) {
		resolveGroundAssaultGroup(state, log, group)
	}
}

// resolveGroundAssaultGroup judges every Invade/Blitz candidate
// targeting one colony against a single snapshot of that colony's
// ground forces taken before any of them act, then applies at most one
// capture: the first candidate (in the group's deterministic order)
// whose force clears the snapshot's batteries and defenders. A later
// candidate that would also have succeeded against the snapshot still
// fails once an earlier one has already taken the colony.
func resolveGroundAssaultGroup(state *model.GameState, log *events.Log, group simul.Group) {
	if len(group.Candidates) == 0 {
		return
	}
	colony := group.Candidates[0].Payload.(groundAssaultPayload).colony
	snapshot := colony.GroundUnits
	defenderForce := snapshot.Armies + snapshot.Marines
	captured := false

	for _, c := range group.Candidates {
		if c.Payload.(groundAssaultPayload).order.Type == model.OrderInvade {
			// Invade always bombards batteries down before marines land,
			// whether or not the subsequent ground assault succeeds.
			colony.GroundUnits.Batteries = 0
		}
	}

	for _, c := range group.Candidates {
		p := c.Payload.(groundAssaultPayload)
		fleet, order := p.fleet, p.order
		marines := troopTransportMarines(fleet)

		if order.Type == model.OrderBlitz {
			if marines < 2*defenderForce {
				order.State = model.StateFailed
				log.Append(events.Event{Kind: events.InvasionResolved, Turn: state.Turn, Phase: "conflict",
					House: fleet.Owner, Colony: colony.ID, Fleet: fleet.ID, Message: "blitz failed: insufficient marine superiority"})
				continue
			}
			if snapshot.Batteries > 0 {
				order.State = model.StateFailed
				log.Append(events.Event{Kind: events.InvasionResolved, Turn: state.Turn, Phase: "conflict",
					House: fleet.Owner, Colony: colony.ID, Fleet: fleet.ID, Message: "invasion repelled by batteries"})
				continue
			}
		}

		if marines <= defenderForce {
			order.State = model.StateFailed
			log.Append(events.Event{Kind: events.InvasionResolved, Turn: state.Turn, Phase: "conflict",
				House: fleet.Owner, Colony: colony.ID, Fleet: fleet.ID, Message: "invasion repelled by ground forces"})
			continue
		}

		if captured {
			order.State = model.StateFailed
			log.Append(events.Event{Kind: events.InvasionResolved, Turn: state.Turn, Phase: "conflict",
				House: fleet.Owner, Colony: colony.ID, Fleet: fleet.ID, Message: "invasion lost simultaneous resolution: colony already captured"})
			continue
		}

		colony.GroundUnits.Batteries = 0
		colony.GroundUnits.Armies = 0
		colony.GroundUnits.Marines = 0
		colony.Owner = fleet.Owner
		consumeTroopTransportCargo(fleet)
		captured = true

		order.State = model.StateCompleted
		log.Append(events.Event{Kind: events.InvasionResolved, Turn: state.Turn, Phase: "conflict", House: fleet.Owner,
			Colony: colony.ID, Fleet: fleet.ID, Message: "invasion succeeded, colony captured"})
	}
}

func troopTransportMarines(f *model.Fleet) int {
	n := 0
	for _, s := range f.Spacelift {
		if s.Class == model.TroopTransport {
			n += s.Cargo.Marines
		}
	}
	return n
}

func consumeTroopTransportCargo(f *model.Fleet) {
	for i, s := range f.Spacelift {
		if s.Class == model.TroopTransport {
			f.Spacelift[i].Cargo.Marines = 0
		}
	}
}

func sortedPlanetaryFleetIDs(state *model.GameState) []ident.FleetId {
	var ids []ident.FleetId
	for id, o := range state.FleetOrders {
		if o.Type == model.OrderBombard || o.Type == model.OrderInvade || o.Type == model.OrderBlitz {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// advanceSpyScoutTravel implements §4.2 step 7: every Traveling scout
// advances 1-2 jumps along its planned path, rolling a per-hop
// detection check at each intermediate system.
func advanceSpyScoutTravel(state *model.GameState, log *events.Log, stream *rng.Stream) {
	for _, sid := range sortedSpyScoutIDs(state) {
		scout := state.SpyScouts[sid]
		if scout.State != model.ScoutTraveling {
			continue
		}

		hops := 1 + stream.IntN(2)
		scout.Advance(hops)

		if systemHasHostilesTo(state, scout.CurrentSystem(), scout.Owner) {
			defenderELI, starbaseBonus := defenderDetectionBonus(state, scout.CurrentSystem(), scout.Owner)
			threshold := 15 - scout.MergedScoutCount + defenderELI + starbaseBonus
			if stream.D20() >= threshold {
				scout.State = model.ScoutDetected
				log.Append(events.Event{Kind: events.SpyScoutDetected, Turn: state.Turn, Phase: "conflict",
					House: scout.Owner, System: scout.CurrentSystem(), Message: "spy scout detected en route"})
				continue
			}
		}

		if scout.AtTarget() {
			scout.State = model.ScoutOnMission
		}
	}
}
