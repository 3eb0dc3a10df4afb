// Package service holds the dashboard's resource workflows. Each mutation
// goes to the hospital API and is followed by a fresh read of the affected
// lists; results never contain locally patched state.
package service

import (
	"hospital-dashboard/internal/event"
	"hospital-dashboard/internal/model"
)

// SessionView is the part of the session services need to attribute events.
type SessionView interface {
	Claim() (model.Claim, bool)
}

type publisher struct {
	bus     event.Bus
	session SessionView
}

func (p publisher) publish(eventType event.Type, payload any) {
	if p.bus == nil {
		return
	}
	actor := ""
	if p.session != nil {
		if claim, ok := p.session.Claim(); ok {
			actor = claim.Subject
		}
	}
	p.bus.Publish(event.New(eventType, actor, payload))
}
