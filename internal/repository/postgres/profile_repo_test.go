// internal/repository/postgres/profile_repo_test.go
package postgres

import (
	"strings"
	"testing"

	"tracksafe-service/internal/domain/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBuildProfileUpdateSingleField(t *testing.T) {
	query, args := buildProfileUpdate("acc-1", auth.ProfilePatch{
		FullName: strPtr("Jane Doe"),
	})

	assert.Equal(t,
		"UPDATE profiles SET full_name = $1, updated_at = NOW() WHERE account_id = $2",
		query,
	)
	require.Len(t, args, 2)
	assert.Equal(t, "Jane Doe", args[0])
	assert.Equal(t, "acc-1", args[1])
}

func TestBuildProfileUpdateOmitsUnsubmittedColumns(t *testing.T) {
	query, _ := buildProfileUpdate("acc-1", auth.ProfilePatch{
		Phone: strPtr("+254700000000"),
	})

	// Only the submitted column appears in SET
	assert.Contains(t, query, "phone = $1")
	assert.NotContains(t, query, "full_name")
	assert.NotContains(t, query, "emergency_contact")
	assert.NotContains(t, query, "blood_type")
}

func TestBuildProfileUpdateHealthWritesAllHealthColumns(t *testing.T) {
	query, args := buildProfileUpdate("acc-1", auth.ProfilePatch{
		Health: &auth.HealthInfo{
			HeartCondition: true,
			AllergyList:    []string{"penicillin"},
			BloodType:      auth.BloodTypeOPositive,
		},
	})

	for _, col := range []string{"heart_condition", "diabetes", "allergies", "allergy_list", "blood_type", "medications"} {
		assert.Contains(t, query, col)
	}
	// 6 health columns plus the account_id argument
	assert.Len(t, args, 7)
	assert.True(t, strings.HasSuffix(query, "WHERE account_id = $7"))
}

func TestBuildProfileUpdateMultipleFieldsOrdered(t *testing.T) {
	query, args := buildProfileUpdate("acc-1", auth.ProfilePatch{
		FullName:         strPtr("Jane Doe"),
		Phone:            strPtr("+254700000000"),
		EmergencyContact: strPtr("John Doe +254711111111"),
	})

	assert.Equal(t,
		"UPDATE profiles SET full_name = $1, phone = $2, emergency_contact = $3, updated_at = NOW() WHERE account_id = $4",
		query,
	)
	assert.Len(t, args, 4)
}
