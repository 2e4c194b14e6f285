package cli

import (
	"fmt"

	"github.com/kyson-dev/chain-helm/internal/document"
	"github.com/spf13/cobra"
)

// builtinPolicies Clash 内置的策略名，不需要在 proxies/proxy-groups 中声明
var builtinPolicies = map[string]bool{
	"DIRECT":      true,
	"REJECT":      true,
	"REJECT-DROP": true,
	"PASS":        true,
	"COMPATIBLE":  true,
	"GLOBAL":      true,
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file|url|-]",
		Short: "Check references between proxies, groups and rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args[0])
			if err != nil {
				return err
			}

			problems := checkDocument(doc)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "proxies=%d groups=%d rules=%d rule-providers=%d\n",
				len(doc.Proxies), len(doc.ProxyGroups), len(doc.Rules), len(doc.RuleProviders))
			if len(problems) == 0 {
				fmt.Fprintln(out, "✓ No problems found")
				return nil
			}
			for _, p := range problems {
				fmt.Fprintf(out, "- %s\n", p)
			}
			return fmt.Errorf("found %d problem(s)", len(problems))
		},
	}
}

// checkDocument 检查悬空引用和无法识别的规则
func checkDocument(doc *document.Document) []string {
	var problems []string
	known := make(map[string]bool)
	for k := range builtinPolicies {
		known[k] = true
	}
	for i, p := range doc.Proxies {
		name := document.ReadString(p, document.KeyName)
		if name == "" {
			problems = append(problems, fmt.Sprintf("proxy #%d has no name", i))
			continue
		}
		if known[name] {
			problems = append(problems, fmt.Sprintf("duplicate name %q", name))
		}
		known[name] = true
	}
	for i, g := range doc.ProxyGroups {
		name := document.GroupName(g)
		if name == "" {
			problems = append(problems, fmt.Sprintf("group #%d has no name", i))
			continue
		}
		if known[name] {
			problems = append(problems, fmt.Sprintf("duplicate name %q", name))
		}
		known[name] = true
	}

	for _, p := range doc.Proxies {
		dialer := document.ReadString(p, document.KeyDialerProxy)
		if dialer != "" && !known[dialer] {
			problems = append(problems, fmt.Sprintf("proxy %q dials through unknown %q",
				document.ReadString(p, document.KeyName), dialer))
		}
	}
	for _, g := range doc.ProxyGroups {
		members, _ := document.GroupProxies(g)
		for _, m := range members {
			if !known[m] {
				problems = append(problems, fmt.Sprintf("group %q references unknown %q", document.GroupName(g), m))
			}
		}
	}

	for _, line := range doc.Rules {
		rule, err := document.ParseRule(line)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if !rule.Known() {
			problems = append(problems, fmt.Sprintf("rule %q has unknown kind %s", line, rule.Kind))
			continue
		}
		if !known[rule.Target] {
			problems = append(problems, fmt.Sprintf("rule %q targets unknown %q", line, rule.Target))
		}
		if rule.Kind == "RULE-SET" {
			if _, ok := doc.RuleProviders[rule.Match]; !ok {
				problems = append(problems, fmt.Sprintf("rule %q references missing provider %q", line, rule.Match))
			}
		}
	}
	return problems
}
