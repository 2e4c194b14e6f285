package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
mixed-port: 7890
mode: rule
proxies:
  - {name: HK-01, type: ss, server: 1.2.3.4, port: 8388, cipher: aes-128-gcm, password: pw}
  - name: US 家宽
    type: trojan
    server: us.example.com
    port: 443
    password: pw
proxy-groups:
  - name: 节点选择
    type: select
    proxies: [HK-01, US 家宽]
rules:
  - DOMAIN-SUFFIX,google.com,节点选择
  - MATCH,DIRECT
`

func TestParse_KeepsUnknownKeys(t *testing.T) {
	doc, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	require.Len(t, doc.Proxies, 2)
	assert.Equal(t, "US 家宽", ReadString(doc.Proxies[1], "name"))
	assert.Equal(t, 443, ReadInt(doc.Proxies[1], "port"))

	require.Len(t, doc.ProxyGroups, 1)
	members, ok := GroupProxies(doc.ProxyGroups[0])
	require.True(t, ok)
	assert.Equal(t, []string{"HK-01", "US 家宽"}, members)

	assert.Equal(t, []string{"DOMAIN-SUFFIX,google.com,节点选择", "MATCH,DIRECT"}, doc.Rules)
	assert.NotNil(t, doc.RuleProviders)
	assert.Equal(t, 7890, doc.Extra["mixed-port"])
	assert.Equal(t, "rule", doc.Extra["mode"])
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("proxies: {not: a list}"))
	assert.Error(t, err)
}

func TestRoundTrip_File(t *testing.T) {
	doc, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	doc.ProxyGroups[0]["proxies"] = []string{"HK-01"}

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, doc.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	members, _ := GroupProxies(loaded.ProxyGroups[0])
	assert.Equal(t, []string{"HK-01"}, members)
	assert.Equal(t, 7890, loaded.Extra["mixed-port"])

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "proxy-groups:")
	assert.Contains(t, string(raw), "rule-providers: {}")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNormalize_EmptyDocument(t *testing.T) {
	doc := &Document{}
	doc.Normalize()

	assert.NotNil(t, doc.Proxies)
	assert.NotNil(t, doc.ProxyGroups)
	assert.NotNil(t, doc.Rules)
	assert.NotNil(t, doc.RuleProviders)
}

func TestGroupIndexAndInsert(t *testing.T) {
	doc := New()
	doc.ProxyGroups = []map[string]any{{"name": "a"}, {"name": "b"}}

	doc.InsertGroup(1, map[string]any{"name": "x"})
	doc.InsertGroup(99, map[string]any{"name": "z"})
	doc.InsertGroup(-1, map[string]any{"name": "first"})

	names := []string{}
	for _, g := range doc.ProxyGroups {
		names = append(names, GroupName(g))
	}
	assert.Equal(t, []string{"first", "a", "x", "b", "z"}, names)
	assert.Equal(t, 2, doc.GroupIndex("x"))
	assert.Equal(t, -1, doc.GroupIndex("missing"))

	removed := doc.RemoveGroup(0)
	assert.Equal(t, "first", GroupName(removed))
	assert.Equal(t, 0, doc.GroupIndex("a"))
}

func TestGroupProxies_Shapes(t *testing.T) {
	members, ok := GroupProxies(map[string]any{"proxies": []any{"a", 1, "b"}})
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, members)

	_, ok = GroupProxies(map[string]any{"use": []any{"p"}})
	assert.False(t, ok)

	_, ok = GroupProxies(map[string]any{"proxies": "a"})
	assert.False(t, ok)
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		line    string
		want    Rule
		wantErr bool
	}{
		{
			line: "DOMAIN-SUFFIX,google.com,Proxy",
			want: Rule{Kind: "DOMAIN-SUFFIX", Match: "google.com", Target: "Proxy", Params: []string{}},
		},
		{
			line: "IP-CIDR,10.0.0.0/8,DIRECT,no-resolve",
			want: Rule{Kind: "IP-CIDR", Match: "10.0.0.0/8", Target: "DIRECT", Params: []string{"no-resolve"}},
		},
		{
			line: "MATCH,Final",
			want: Rule{Kind: "MATCH", Target: "Final", Params: []string{}},
		},
		{
			line: "AND,((DOMAIN,a.com),(NETWORK,UDP)),REJECT",
			want: Rule{Kind: "AND", Match: "((DOMAIN,a.com),(NETWORK,UDP))", Target: "REJECT", Params: []string{}},
		},
		{line: "DOMAIN,only-two", wantErr: true},
		{line: "   ", wantErr: true},
		{line: "MATCH", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseRule(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.line, got.String())
			assert.True(t, got.Known())
		})
	}
}

func TestRule_Unknown(t *testing.T) {
	r, err := ParseRule("GEOSITE-X,cn,DIRECT")
	require.NoError(t, err)
	assert.False(t, r.Known())
}
