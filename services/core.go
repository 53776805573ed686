package services

import (
	"time"

	"gorm.io/gorm"
)

// Core wires the components around one shared guard, so every externally
// visible mutation is serialized and all-or-nothing across the whole system.
type Core struct {
	Params  Params
	Access  *AccessControl
	Ledger  *TokenLedger
	Gateway *RandomnessGateway
	Engine  *RoundEngine
	Gifts   *GiftDistributor
	Admin   *AdminGateway
	Hub     *Hub
}

// NewCore assembles the system. db and notifier may be nil (tests run fully
// in memory); now defaults to time.Now.
func NewCore(params Params, owner string, db *gorm.DB, notifier *OracleNotifier, now func() time.Time) *Core {
	if now == nil {
		now = time.Now
	}
	guard := &Guard{}
	access := NewAccessControl(owner)
	hub := NewHub()
	ledger := NewTokenLedger(guard, db, params, access, now)
	gateway := NewRandomnessGateway(guard, db, notifier, now)
	engine := NewRoundEngine(guard, db, params, ledger, gateway, access, hub, now)
	gifts := NewGiftDistributor(guard, db, params, ledger, engine, access)
	admin := NewAdminGateway(guard, params, ledger, engine, access, now)

	return &Core{
		Params:  params,
		Access:  access,
		Ledger:  ledger,
		Gateway: gateway,
		Engine:  engine,
		Gifts:   gifts,
		Admin:   admin,
		Hub:     hub,
	}
}
