package notify

import (
	"context"
	"errors"

	"backend-teamugly/internal/contacts"
	"backend-teamugly/internal/ride"
)

type RideLookup interface {
	GetRide(ctx context.Context, id int64) (ride.Ride, error)
}

type Service struct {
	rides        RideLookup
	contactsPath string
	links        Links
}

func NewService(rides RideLookup, contactsPath string, links Links) *Service {
	return &Service{rides: rides, contactsPath: contactsPath, links: links}
}

// Prepare reads the contact list from disk on every call.
func (s *Service) Prepare(ctx context.Context, rideID int64) (Notification, error) {
	r, err := s.rides.GetRide(ctx, rideID)
	if err != nil {
		return Notification{}, err
	}

	list, err := contacts.Load(s.contactsPath)
	if errors.Is(err, contacts.ErrNoContacts) {
		return Notification{
			Status:  StatusNoContacts,
			Message: "No contacts.csv found — add one to enable notifications.",
		}, nil
	}
	if err != nil {
		return Notification{}, err
	}
	return Build(r, list, s.links), nil
}
