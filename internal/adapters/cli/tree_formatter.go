package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
)

// TreeFormatter renders a battle as setups, roles and signups
type TreeFormatter struct {
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// treeNode is one printable line with its children
type treeNode struct {
	text     string
	children []*treeNode
}

// FormatBattle renders the full battle tree
func (f *TreeFormatter) FormatBattle(agg *dtos.BattleAggregateDTO) string {
	if agg == nil {
		return "(no battle)"
	}

	b := agg.Battle
	root := &treeNode{text: fmt.Sprintf("%s [%s] %s, BR limit %d, meetup %s",
		b.PortName, f.status(b.Status), b.WaterType, b.BRLimit, b.MeetupTime.Format("2006-01-02 15:04 MST"))}
	if agg.IsMockData {
		root.text += " (mock data)"
	}

	for _, setup := range agg.Setups {
		marker := ""
		if setup.IsActive {
			marker = " *active*"
		}
		node := &treeNode{text: fmt.Sprintf("Setup %q%s, BR %d/%d", setup.Name, marker, setup.BRTotal, b.BRLimit)}
		for _, role := range setup.Roles {
			roleNode := &treeNode{text: fmt.Sprintf("#%d %s (BR %d)", role.RoleOrder, role.ShipName, role.BRValue)}
			for _, s := range role.Signups {
				roleNode.children = append(roleNode.children, &treeNode{text: f.signupLine(s)})
			}
			if len(role.Signups) == 0 {
				roleNode.children = append(roleNode.children, &treeNode{text: "(open)"})
			}
			node.children = append(node.children, roleNode)
		}
		root.children = append(root.children, node)
	}

	for _, fleet := range agg.ScreeningFleets {
		capacity := "unbounded"
		if fleet.ShipsRequired != nil {
			capacity = fmt.Sprintf("%d/%d", len(fleet.Signups), *fleet.ShipsRequired)
		}
		node := &treeNode{text: fmt.Sprintf("Screening %s [%s], ships %s", fleet.Type, strings.Join(fleet.RequiredShips, ", "), capacity)}
		for _, s := range fleet.Signups {
			node.children = append(node.children, &treeNode{text: fmt.Sprintf("%s %s", f.status(s.Status), s.CaptainName)})
		}
		root.children = append(root.children, node)
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

func (f *TreeFormatter) signupLine(s dtos.SignupDTO) string {
	line := fmt.Sprintf("%s %s", f.status(s.Status), s.CaptainName)
	if s.ClanName != "" {
		line += fmt.Sprintf(" [%s]", s.ClanName)
	}
	if s.IsExternal {
		line += " (external)"
	}
	return line
}

// formatNode recursively formats a node and its children
func (f *TreeFormatter) formatNode(builder *strings.Builder, node *treeNode, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}
	builder.WriteString(linePrefix + node.text + "\n")

	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}
	for i, child := range node.children {
		f.formatNode(builder, child, childPrefix, i == len(node.children)-1, false)
	}
}

// status colors a status label
func (f *TreeFormatter) status(s string) string {
	if !f.useColors {
		return s
	}
	switch s {
	case "APPROVED", "ACTIVE", "PLANNED":
		return "\033[32m" + s + "\033[0m" // Green
	case "PENDING":
		return "\033[33m" + s + "\033[0m" // Yellow
	case "DENIED", "CANCELLED":
		return "\033[31m" + s + "\033[0m" // Red
	default:
		return s
	}
}
