package rolemapping

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const account = "000000000000"

type logCall struct {
	msg  string
	args []any
}

type mockLogger struct {
	infoCalls []logCall
}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any) {
	m.infoCalls = append(m.infoCalls, logCall{msg, args})
}
func (m *mockLogger) Warn(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}

func arn(role string) string {
	return "arn:aws:iam::" + account + ":role/" + role
}

func newResolver(t *testing.T, rules RuleSet, opts ...Option) *Resolver {
	t.Helper()
	r, err := NewResolver(rules, append([]Option{WithAccountID(account)}, opts...)...)
	require.NoError(t, err)
	return r
}

func TestNewResolver(t *testing.T) {
	t.Run("requires an account id", func(t *testing.T) {
		r, err := NewResolver(nil)
		assert.Nil(t, r)
		assert.ErrorContains(t, err, "account id is required")
	})

	t.Run("rejects empty account id", func(t *testing.T) {
		_, err := NewResolver(nil, WithAccountID(""))
		assert.ErrorContains(t, err, "account id cannot be empty")
	})

	t.Run("rejects nil logger", func(t *testing.T) {
		_, err := NewResolver(nil, WithAccountID(account), WithLogger(nil))
		assert.ErrorContains(t, err, "logger cannot be nil")
	})

	t.Run("does not share the caller's slice", func(t *testing.T) {
		rules := RuleSet{{RoleName: "R1", Priority: 1, AssociatedDomain: "api.example.com", Environment: "prod"}}
		r := newResolver(t, rules)

		rules[0].RoleName = "changed"

		got, ok := r.Resolve("api.example.com", "prod", []string{arn("R1")})
		require.True(t, ok)
		assert.Equal(t, "R1", got.RoleName)
	})
}

func TestResolver_Resolve(t *testing.T) {
	rules := RuleSet{
		{RoleName: "Reader", Priority: 10, AssociatedDomain: "api.example.com", Environment: "prod", ServiceName: "api"},
		{RoleName: "Admin", Priority: 1, AssociatedDomain: "api.example.com", Environment: "prod", ServiceName: "api"},
		{RoleName: "StgAdmin", Priority: 1, AssociatedDomain: "api.example.com", Environment: "stg", ServiceName: "api"},
		{RoleName: "Other", Priority: 0, AssociatedDomain: "other.example.com", Environment: "prod", ServiceName: "other"},
	}

	testCases := []struct {
		name        string
		domain      string
		environment string
		roles       []string
		wantRole    string
		wantOK      bool
	}{
		{
			name:        "lowest priority wins",
			domain:      "api.example.com",
			environment: "prod",
			roles:       []string{arn("Reader"), arn("Admin")},
			wantRole:    "Admin",
			wantOK:      true,
		},
		{
			name:        "only held roles are candidates",
			domain:      "api.example.com",
			environment: "prod",
			roles:       []string{arn("Reader")},
			wantRole:    "Reader",
			wantOK:      true,
		},
		{
			name:        "environment must match",
			domain:      "api.example.com",
			environment: "stg",
			roles:       []string{arn("Admin")},
		},
		{
			name:        "domain must match",
			domain:      "unknown.example.com",
			environment: "prod",
			roles:       []string{arn("Admin"), arn("Other")},
		},
		{
			name:        "role from another account does not match",
			domain:      "api.example.com",
			environment: "prod",
			roles:       []string{"arn:aws:iam::111111111111:role/Admin"},
		},
		{
			name:        "no roles",
			domain:      "api.example.com",
			environment: "prod",
		},
	}

	r := newResolver(t, rules)

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, ok := r.Resolve(testCase.domain, testCase.environment, testCase.roles)
			assert.Equal(t, testCase.wantOK, ok)
			assert.Equal(t, testCase.wantRole, got.RoleName)
		})
	}
}

func TestResolver_TieBreak(t *testing.T) {
	rules := RuleSet{
		{RoleName: "Low", Priority: 5, AssociatedDomain: "api.example.com", Environment: "prod"},
		{RoleName: "First", Priority: 1, AssociatedDomain: "api.example.com", Environment: "prod"},
		{RoleName: "Second", Priority: 1, AssociatedDomain: "api.example.com", Environment: "prod"},
	}
	roles := []string{arn("Second"), arn("Low"), arn("First")}

	r := newResolver(t, rules)

	for i := 0; i < 20; i++ {
		got, ok := r.Resolve("api.example.com", "prod", roles)
		require.True(t, ok)
		assert.Equal(t, "First", got.RoleName, "rule file order decides between equal priorities")
	}
}

func TestResolver_MatchesOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	domains := []string{"a.example.com", "b.example.com"}
	environments := []string{"prod", "stg"}

	for iteration := 0; iteration < 200; iteration++ {
		var rules RuleSet
		ruleCount, roleCount := rng.Intn(8), rng.Intn(4)
		for i := 0; i < ruleCount; i++ {
			rules = append(rules, Rule{
				RoleName:         fmt.Sprintf("R%d", rng.Intn(5)),
				Priority:         rng.Intn(4),
				AssociatedDomain: domains[rng.Intn(len(domains))],
				Environment:      environments[rng.Intn(len(environments))],
			})
		}
		var roles []string
		for i := 0; i < roleCount; i++ {
			roles = append(roles, arn(fmt.Sprintf("R%d", rng.Intn(5))))
		}
		domain := domains[rng.Intn(len(domains))]
		environment := environments[rng.Intn(len(environments))]

		var want *Rule
		for i, rule := range rules {
			if rule.Environment != environment || rule.AssociatedDomain != domain {
				continue
			}
			held := false
			for _, role := range roles {
				held = held || role == arn(rule.RoleName)
			}
			if held && (want == nil || rule.Priority < want.Priority) {
				want = &rules[i]
			}
		}

		got, ok := newResolver(t, rules).Resolve(domain, environment, roles)
		if want == nil {
			assert.False(t, ok, "iteration %d", iteration)
			continue
		}
		require.True(t, ok, "iteration %d", iteration)
		assert.Equal(t, *want, got, "iteration %d", iteration)
	}
}

func TestResolver_Logs(t *testing.T) {
	rules := RuleSet{{RoleName: "R1", Priority: 1, AssociatedDomain: "api.example.com", Environment: "prod"}}

	t.Run("candidates and choice", func(t *testing.T) {
		logger := &mockLogger{}
		r := newResolver(t, rules, WithLogger(logger))

		_, ok := r.Resolve("api.example.com", "prod", []string{arn("R1")})
		require.True(t, ok)
		require.Len(t, logger.infoCalls, 2)
		assert.Equal(t, "role candidates", logger.infoCalls[0].msg)
		assert.Equal(t, "role chosen", logger.infoCalls[1].msg)
		assert.Contains(t, logger.infoCalls[1].args, arn("R1"))
	})

	t.Run("empty candidate set", func(t *testing.T) {
		logger := &mockLogger{}
		r := newResolver(t, rules, WithLogger(logger))

		_, ok := r.Resolve("api.example.com", "prod", nil)
		require.False(t, ok)
		require.Len(t, logger.infoCalls, 1)
		assert.Equal(t, "role candidates", logger.infoCalls[0].msg)
	})
}

func TestRule(t *testing.T) {
	rule := Rule{RoleName: "R1", Priority: 3}
	assert.Equal(t, "arn:aws:iam::123456789012:role/R1", rule.RoleARN("123456789012"))

	other := Rule{RoleName: "Different", Priority: 3, Environment: "stg"}
	assert.Equal(t, 0, rule.Compare(other), "only priority takes part in ordering")
	assert.Equal(t, -1, Rule{Priority: 1}.Compare(rule))
	assert.Equal(t, 1, rule.Compare(Rule{Priority: 1}))
}
