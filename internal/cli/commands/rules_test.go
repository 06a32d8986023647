package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/haiku/internal/cli/testutil"
	"github.com/leapstack-labs/haiku/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesCommandList(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), map[string]string{"output": "markdown"})

	res := testutil.ExecuteCommand(t, NewRulesCommand(), "")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "| ID ")
	assert.Contains(t, res.Stdout, "HK01")
	assert.Contains(t, res.Stdout, "correctness.unused_variable")
	assert.Contains(t, res.Stdout, "HK12")
}

func TestRulesCommandListJSON(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), map[string]string{"output": "json"})

	res := testutil.ExecuteCommand(t, NewRulesCommand(), "", "--group", "style")
	require.NoError(t, res.Err)

	var infos []lint.RuleInfo
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &infos))
	require.NotEmpty(t, infos)
	for _, info := range infos {
		assert.Equal(t, "style", info.Group)
	}
}

func TestRulesCommandShow(t *testing.T) {
	testutil.LoadConfig(t, t.TempDir(), map[string]string{"output": "markdown"})

	res := testutil.ExecuteCommand(t, NewRulesCommand(), "", "hk11")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "## HK11 - ")
	assert.Contains(t, res.Stdout, "Severity: ")
	assert.Contains(t, res.Stdout, "```haiku\n")

	res = testutil.ExecuteCommand(t, NewRulesCommand(), "", "HK99")
	assert.ErrorContains(t, res.Err, `rule "HK99" not found`)
}
