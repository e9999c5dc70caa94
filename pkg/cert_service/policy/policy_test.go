package policy_test

import (
	"testing"

	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/cert_service/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	name, err := policy.Name(model.AccessRead, "app1.example.com")
	require.NoError(t, err)
	assert.Equal(t, "r_cert_app1.example.com", name)

	name, err = policy.Name(model.AccessWrite, "app1.example.com")
	require.NoError(t, err)
	assert.Equal(t, "w_cert_app1.example.com", name)

	name, err = policy.Name(model.AccessDeny, "app1.example.com")
	require.NoError(t, err)
	assert.Equal(t, "d_cert_app1.example.com", name)

	_, err = policy.Name(model.AccessLevel("admin"), "app1.example.com")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestParse(t *testing.T) {
	level, name, ok := policy.Parse("w_cert_app1.example.com")
	require.True(t, ok)
	assert.Equal(t, model.AccessWrite, level)
	assert.Equal(t, "app1.example.com", name)

	// Certificate names may themselves contain the infix marker.
	level, name, ok = policy.Parse("r_cert_my_cert_app.example.com")
	require.True(t, ok)
	assert.Equal(t, model.AccessRead, level)
	assert.Equal(t, "my_cert_app.example.com", name)

	_, _, ok = policy.Parse("default")
	assert.False(t, ok)

	_, _, ok = policy.Parse("x_cert_app1.example.com")
	assert.False(t, ok)

	_, _, ok = policy.Parse("r_cert_")
	assert.False(t, ok)
}

func TestWithReplacesExistingEntry(t *testing.T) {
	policies := []string{"default", "r_cert_app1.example.com", "w_cert_other.example.com"}

	updated, err := policy.With(policies, model.AccessWrite, "app1.example.com")
	require.NoError(t, err)
	assert.ElementsMatch(
		t,
		[]string{"default", "w_cert_other.example.com", "w_cert_app1.example.com"},
		updated,
	)
}

func TestWithout(t *testing.T) {
	policies := []string{"default", "d_cert_app1.example.com", "w_cert_other.example.com"}

	assert.Equal(
		t,
		[]string{"default", "w_cert_other.example.com"},
		policy.Without(policies, "app1.example.com"),
	)
	assert.Equal(t, policies, policy.Without(policies, "absent.example.com"))
}

func TestCertificateNames(t *testing.T) {
	policies := []string{"default", "r_cert_app1.example.com", "d_cert_app2.example.com"}
	assert.Equal(t, []string{"app1.example.com", "app2.example.com"}, policy.CertificateNames(policies))
}

func TestLevelFor(t *testing.T) {
	policies := []string{"default", "d_cert_app1.example.com"}

	level, ok := policy.LevelFor(policies, "app1.example.com")
	require.True(t, ok)
	assert.Equal(t, model.AccessDeny, level)

	_, ok = policy.LevelFor(policies, "app2.example.com")
	assert.False(t, ok)
}
