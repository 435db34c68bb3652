package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOwnerID(t *testing.T) {
	assert.Equal(t, uuid.Nil, OwnerID(context.Background()))
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id})
	assert.Equal(t, id, OwnerID(ctx))
}

func TestTraceData(t *testing.T) {
	assert.Nil(t, GetTraceData(context.Background()))
	ctx := WithTraceData(context.Background(), &TraceData{RequestID: "r1"})
	assert.Equal(t, "r1", GetTraceData(ctx).RequestID)
}
