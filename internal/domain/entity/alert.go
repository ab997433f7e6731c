package entity

// SlotAlert pairs a matched slot with the subscription it matched, ready
// to be rendered for the subscriber.
type SlotAlert struct {
	Subscription Subscription
	Slot         Slot
	Identity     SlotIdentity
}
