package app

import (
	"github.com/shandysiswandi/newsletter/internal/subscription"
)

func (a *App) initModules() error {
	if !a.config.GetBool("modules.subscription.enabled") {
		return nil
	}

	return subscription.New(subscription.Dependency{
		Ctx:         a.ctx,
		DBConn:      a.dbConn,
		Goroutine:   a.goroutine,
		Router:      a.router,
		Idempotency: a.idemp,
		Messaging:   a.messaging,
		Mail:        a.mail,
		Storage:     a.storage,
		Config:      a.config,
		Instrument:  a.ins,
		UID:         a.uid,
		UUID:        a.uuid,
		Token:       a.token,
		HMAC:        a.hmac,
		Clock:       a.clock,
		Validator:   a.validator,
	})
}
