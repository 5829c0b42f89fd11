package model

import "testing"

func TestCommandPacketEmpty(t *testing.T) {
	var p CommandPacket
	if !p.Empty() {
		t.Fatal("zero-value packet should be Empty")
	}

	p.FleetOrders = append(p.FleetOrders, Order{})
	if p.Empty() {
		t.Fatal("packet with a fleet order should not be Empty")
	}
}

func TestCommandPacketEmptyIgnoresNothingElse(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*CommandPacket)
	}{
		{"admin command", func(p *CommandPacket) { p.AdminCommands = append(p.AdminCommands, AdminCommand{}) }},
		{"build", func(p *CommandPacket) { p.Builds = append(p.Builds, BuildCommand{}) }},
		{"repair", func(p *CommandPacket) { p.Repairs = append(p.Repairs, RepairCommand{}) }},
		{"scrap", func(p *CommandPacket) { p.Scraps = append(p.Scraps, ScrapCommand{}) }},
		{"diplomacy", func(p *CommandPacket) { p.Diplomacy = append(p.Diplomacy, DiplomaticAction{}) }},
		{"research economic", func(p *CommandPacket) { p.Research.Economic = 1 }},
		{"investment", func(p *CommandPacket) { p.Investment.EBP = 1 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var p CommandPacket
			c.mod(&p)
			if p.Empty() {
				t.Fatalf("packet with %s set should not be Empty", c.name)
			}
		})
	}
}
