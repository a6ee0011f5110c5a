package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"legado/internal/estate/models"
	id "legado/pkg/domain"
	"legado/pkg/platform/sentinel"
)

type EstateStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *EstateStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func TestEstateStoreSuite(t *testing.T) {
	suite.Run(t, new(EstateStoreSuite))
}

func (s *EstateStoreSuite) newEstate(name string) *models.DigitalEstate {
	e, err := models.NewDigitalEstate(
		id.NewEstateID(),
		name,
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		[]json.RawMessage{json.RawMessage(`{"kind":"bank","iban":"DE02"}`)},
		[]json.RawMessage{json.RawMessage(`"Bob"`)},
		nil,
		time.Now(),
	)
	s.Require().NoError(err)
	return e
}

func (s *EstateStoreSuite) TestInsertAndFind() {
	s.Run("round trip by id", func() {
		estate := s.newEstate("Jane Doe")
		s.Require().NoError(s.store.Insert(context.Background(), estate))

		found, err := s.store.FindByID(context.Background(), estate.ID)
		s.Require().NoError(err)
		s.Equal(estate, found)
	})

	s.Run("missing id returns ErrNotFound", func() {
		_, err := s.store.FindByID(context.Background(), id.NewEstateID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("duplicate insert returns ErrConflict", func() {
		estate := s.newEstate("Jane Doe")
		s.Require().NoError(s.store.Insert(context.Background(), estate))
		s.Require().ErrorIs(s.store.Insert(context.Background(), estate), sentinel.ErrConflict)
	})
}

func (s *EstateStoreSuite) TestFindAllKeepsInsertionOrder() {
	first := s.newEstate("First")
	second := s.newEstate("Second")
	s.Require().NoError(s.store.Insert(context.Background(), first))
	s.Require().NoError(s.store.Insert(context.Background(), second))

	all, err := s.store.FindAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("First", all[0].Name)
	s.Equal("Second", all[1].Name)
}

func (s *EstateStoreSuite) TestUpdate() {
	s.Run("replaces stored record", func() {
		estate := s.newEstate("Jane Doe")
		s.Require().NoError(s.store.Insert(context.Background(), estate))

		estate.Name = "Jane Q. Doe"
		s.Require().NoError(s.store.Update(context.Background(), estate))

		found, err := s.store.FindByID(context.Background(), estate.ID)
		s.Require().NoError(err)
		s.Equal("Jane Q. Doe", found.Name)
	})

	s.Run("unknown id returns ErrNotFound", func() {
		estate := s.newEstate("Ghost")
		s.Require().ErrorIs(s.store.Update(context.Background(), estate), sentinel.ErrNotFound)
	})
}

func (s *EstateStoreSuite) TestDelete() {
	s.Run("removes the record", func() {
		estate := s.newEstate("Jane Doe")
		s.Require().NoError(s.store.Insert(context.Background(), estate))
		s.Require().NoError(s.store.Delete(context.Background(), estate.ID))

		_, err := s.store.FindByID(context.Background(), estate.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("unknown id returns ErrNotFound", func() {
		s.Require().ErrorIs(s.store.Delete(context.Background(), id.NewEstateID()), sentinel.ErrNotFound)
	})
}

// Stored state must not be reachable through returned pointers.
func (s *EstateStoreSuite) TestReturnsCopies() {
	estate := s.newEstate("Jane Doe")
	s.Require().NoError(s.store.Insert(context.Background(), estate))

	found, err := s.store.FindByID(context.Background(), estate.ID)
	s.Require().NoError(err)
	found.Name = "mutated"

	again, err := s.store.FindByID(context.Background(), estate.ID)
	s.Require().NoError(err)
	s.Equal("Jane Doe", again.Name)
}
