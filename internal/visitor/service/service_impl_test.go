package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	visitordomain "github.com/societyhq/societyhub/internal/visitor/domain"
	"github.com/societyhq/societyhub/internal/visitor/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupVisitorService(t *testing.T) (*Service, *snowflake.Node) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&visitordomain.Visitor{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := &Service{
		db:    conn,
		log:   zaptest.NewLogger(t),
		genID: node,
		repo:  repository.Provide(),
	}
	return svc, node
}

func TestVisitorCheckInAndOut(t *testing.T) {
	svc, node := setupVisitorService(t)
	ctx := context.Background()

	visitor, err := svc.CheckIn(ctx, visitordomain.CheckInRequest{
		SocietyID:   node.Generate().String(),
		VisitorName: "Courier",
		FlatNumber:  "A-101",
	})
	require.NoError(t, err)

	assert.Equal(t, visitordomain.StatusCheckedIn, visitor.Status)
	assert.NotEmpty(t, visitor.GatePassCode)
	assert.Equal(t, 1, visitor.NumberOfVisitors)
	assert.Equal(t, "Main Gate", visitor.EntryGate)
	assert.False(t, visitor.EntryTime.IsZero())

	out, err := svc.CheckOut(ctx, visitordomain.CheckOutRequest{
		ID:       visitor.ID.String(),
		ExitGate: "Rear Gate",
	})
	require.NoError(t, err)
	assert.Equal(t, visitordomain.StatusCheckedOut, out.Status)
	assert.Equal(t, "Rear Gate", out.ExitGate)
	require.NotNil(t, out.ExitTime)

	// A second checkout is refused.
	_, err = svc.CheckOut(ctx, visitordomain.CheckOutRequest{ID: visitor.ID.String()})
	assert.ErrorIs(t, err, visitordomain.ErrAlreadyCheckedOut)
}

func TestVisitorValidation(t *testing.T) {
	svc, node := setupVisitorService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, visitordomain.CheckInRequest{
		SocietyID:   node.Generate().String(),
		VisitorName: "   ",
	})
	assert.ErrorIs(t, err, visitordomain.ErrInvalidName)

	_, err = svc.CheckOut(ctx, visitordomain.CheckOutRequest{ID: node.Generate().String()})
	assert.ErrorIs(t, err, visitordomain.ErrNotFound)

	_, err = svc.GetByID(ctx, "not-a-snowflake")
	assert.ErrorIs(t, err, visitordomain.ErrInvalidID)
}
