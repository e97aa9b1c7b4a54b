package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestDeterminism(t *testing.T) {
	v := IRArray{IRObject{"op": IRString("finalize_dedup_unfold")}}

	d1, err := Digest(DomainProgram, v)
	require.NoError(t, err)
	d2, err := Digest(DomainProgram, v)
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64, "SHA-256 hex is 64 characters")
}

func TestDigestKeyOrderIndependent(t *testing.T) {
	a := IRObject{"from": IRString("pserver"), "to": IRString("p-interface")}
	b := IRObject{"to": IRString("p-interface"), "from": IRString("pserver")}

	da, err := Digest(DomainProgram, a)
	require.NoError(t, err)
	db, err := Digest(DomainProgram, b)
	require.NoError(t, err)

	assert.Equal(t, da, db)
}

func TestDigestDomainSeparation(t *testing.T) {
	v := IRArray{}

	program, err := Digest(DomainProgram, v)
	require.NoError(t, err)
	rules, err := Digest(DomainRuleSet, v)
	require.NoError(t, err)

	assert.NotEqual(t, program, rules)
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "ab" + "c" must not collide with "a" + "bc".
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}

func TestDigestRejectsNil(t *testing.T) {
	_, err := Digest(DomainProgram, IRArray{nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), DomainProgram)
}
