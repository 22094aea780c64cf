package services

import (
	"context"
	"testing"
	"time"

	"crewlink-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crewOn(id, shipID string) *models.CrewMember {
	return &models.CrewMember{
		ID:            id,
		Email:         id + "@example.com",
		DisplayName:   id,
		CurrentShipID: shipID,
		Active:        true,
	}
}

func visibleIDs(t *testing.T, svc *VisibilityService, viewerID string, date models.Date) map[string]bool {
	t.Helper()
	members, err := svc.VisibleCrew(context.Background(), viewerID, date)
	require.NoError(t, err)
	ids := make(map[string]bool, len(members))
	for _, m := range members {
		ids[m.ID] = true
	}
	return ids
}

func TestVisibilityService_SameShipAlwaysVisible(t *testing.T) {
	users := newMemUserStore()
	users.add(crewOn("alice", "harmony"))
	users.add(crewOn("bob", "harmony"))
	users.add(crewOn("carol", "symphony"))

	svc := NewVisibilityService(users, newMemDeclarationStore())
	date := models.NewDate(2024, time.March, 15)

	ids := visibleIDs(t, svc, "alice", date)
	assert.True(t, ids["bob"])
	assert.False(t, ids["carol"], "crew on an unlinked ship must stay hidden")
	assert.False(t, ids["alice"], "viewer never appears in their own results")
}

func TestVisibilityService_NoCurrentShip(t *testing.T) {
	users := newMemUserStore()
	users.add(crewOn("alice", ""))
	users.add(crewOn("bob", "harmony"))

	svc := NewVisibilityService(users, newMemDeclarationStore())

	members, err := svc.VisibleCrew(context.Background(), "alice", models.NewDate(2024, time.March, 15))
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestVisibilityService_PortLinkedCrew(t *testing.T) {
	users := newMemUserStore()
	users.add(crewOn("alice", "harmony"))
	users.add(crewOn("bob", "symphony"))
	users.add(crewOn("carol", "symphony"))

	decls := newMemDeclarationStore()
	links := NewPortLinkService(decls)
	date := models.NewDate(2024, time.March, 15)
	ctx := context.Background()

	// Alice declares the docking from Harmony's side; Bob from Symphony's.
	_, err := links.Declare(ctx, "alice", "harmony", "symphony", "Miami, FL", date)
	require.NoError(t, err)
	_, err = links.Declare(ctx, "bob", "symphony", "harmony", "Miami, FL", date)
	require.NoError(t, err)

	svc := NewVisibilityService(users, decls)

	aliceSees := visibleIDs(t, svc, "alice", date)
	assert.True(t, aliceSees["bob"], "bob declared from a linked ship in the shared port")
	assert.False(t, aliceSees["carol"], "carol never declared; port visibility covers declaring crew only")

	bobSees := visibleIDs(t, svc, "bob", date)
	assert.True(t, bobSees["alice"])
	assert.True(t, bobSees["carol"], "same ship, always visible")
}

func TestVisibilityService_Asymmetric(t *testing.T) {
	users := newMemUserStore()
	users.add(crewOn("alice", "harmony"))
	users.add(crewOn("bob", "symphony"))

	decls := newMemDeclarationStore()
	links := NewPortLinkService(decls)
	date := models.NewDate(2024, time.March, 15)
	ctx := context.Background()

	// Only Harmony declares the docking. Alice still cannot see Bob, because
	// Bob has no active declaration; and Bob cannot see Alice, because Symphony
	// declared nothing.
	_, err := links.Declare(ctx, "alice", "harmony", "symphony", "Miami, FL", date)
	require.NoError(t, err)

	aliceSees := visibleIDs(t, NewVisibilityService(users, decls), "alice", date)
	assert.False(t, aliceSees["bob"])

	bobSees := visibleIDs(t, NewVisibilityService(users, decls), "bob", date)
	assert.False(t, bobSees["alice"])

	// Bob declares toward a third ship in the same port. Alice's side links to
	// Symphony, so Bob becomes visible to Alice; Alice has no inbound link
	// from Symphony's perspective beyond her declaration, and Symphony links
	// only to Oasis, so Alice stays hidden from Bob.
	_, err = links.Declare(ctx, "bob", "symphony", "oasis", "Miami, FL", date)
	require.NoError(t, err)

	aliceSees = visibleIDs(t, NewVisibilityService(users, decls), "alice", date)
	assert.True(t, aliceSees["bob"])

	bobSees = visibleIDs(t, NewVisibilityService(users, decls), "bob", date)
	assert.False(t, bobSees["alice"])
}

func TestVisibilityService_PortMustMatch(t *testing.T) {
	users := newMemUserStore()
	users.add(crewOn("alice", "harmony"))
	users.add(crewOn("bob", "symphony"))

	decls := newMemDeclarationStore()
	links := NewPortLinkService(decls)
	date := models.NewDate(2024, time.March, 15)
	ctx := context.Background()

	_, err := links.Declare(ctx, "alice", "harmony", "symphony", "Miami, FL", date)
	require.NoError(t, err)
	_, err = links.Declare(ctx, "bob", "symphony", "harmony", "Nassau", date)
	require.NoError(t, err)

	aliceSees := visibleIDs(t, NewVisibilityService(users, decls), "alice", date)
	assert.False(t, aliceSees["bob"], "declarations in different ports do not connect")
}

func TestVisibilityService_WithdrawnDeclarationHidesCrew(t *testing.T) {
	users := newMemUserStore()
	users.add(crewOn("alice", "harmony"))
	users.add(crewOn("bob", "symphony"))

	decls := newMemDeclarationStore()
	links := NewPortLinkService(decls)
	date := models.NewDate(2024, time.March, 15)
	ctx := context.Background()

	_, err := links.Declare(ctx, "alice", "harmony", "symphony", "Miami, FL", date)
	require.NoError(t, err)
	bobDecl, err := links.Declare(ctx, "bob", "symphony", "harmony", "Miami, FL", date)
	require.NoError(t, err)

	aliceSees := visibleIDs(t, NewVisibilityService(users, decls), "alice", date)
	require.True(t, aliceSees["bob"])

	require.NoError(t, links.Withdraw(ctx, bobDecl.ID, "bob"))

	aliceSees = visibleIDs(t, NewVisibilityService(users, decls), "alice", date)
	assert.False(t, aliceSees["bob"])
}

func TestVisibilityService_DuplicateDeclarationsNoDuplicateCrew(t *testing.T) {
	users := newMemUserStore()
	users.add(crewOn("alice", "harmony"))
	users.add(crewOn("bob", "symphony"))

	decls := newMemDeclarationStore()
	links := NewPortLinkService(decls)
	date := models.NewDate(2024, time.March, 15)
	ctx := context.Background()

	_, err := links.Declare(ctx, "alice", "harmony", "symphony", "Miami, FL", date)
	require.NoError(t, err)
	// Bob confirms the same docking twice.
	_, err = links.Declare(ctx, "bob", "symphony", "harmony", "Miami, FL", date)
	require.NoError(t, err)
	_, err = links.Declare(ctx, "bob", "symphony", "oasis", "Miami, FL", date)
	require.NoError(t, err)

	members, err := NewVisibilityService(users, decls).VisibleCrew(ctx, "alice", date)
	require.NoError(t, err)

	count := 0
	for _, m := range members {
		if m.ID == "bob" {
			count++
		}
	}
	assert.Equal(t, 1, count, "bob must appear exactly once")
}
