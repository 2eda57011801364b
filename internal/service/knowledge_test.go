package service

import (
	"context"
	"testing"
	"time"

	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeService_ListKnowledge_DefaultLimit(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	svc := NewKnowledgeService(repo)

	page := &KnowledgePageResult{
		Items: []*domain.KnowledgeEntry{
			{ID: "a", Content: "c", Category: domain.CategoryFire, CreatedAt: time.Now()},
		},
		NextCursor: "next",
		HasMore:    true,
	}
	repo.On("ListWithCursor", mock.Anything, (*pagination.Cursor)(nil), 20).Return(page, nil)

	out, err := svc.ListKnowledge(context.Background(), ListKnowledgeInput{})

	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, "next", out.Cursor)
	assert.True(t, out.HasMore)
}

func TestKnowledgeService_ListKnowledge_CursorRoundTrip(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	svc := NewKnowledgeService(repo)

	encoded := pagination.EncodeCursor("a", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	repo.On("ListWithCursor", mock.Anything, mock.MatchedBy(func(c *pagination.Cursor) bool {
		return c != nil && c.LastID == "a"
	}), 5).Return(&KnowledgePageResult{Items: nil, HasMore: false}, nil)

	_, err := svc.ListKnowledge(context.Background(), ListKnowledgeInput{Cursor: encoded, Limit: 5})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestKnowledgeService_GetByID_NotFound(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	svc := NewKnowledgeService(repo)

	repo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrKnowledgeNotFound)

	_, err := svc.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrKnowledgeNotFound)
}
