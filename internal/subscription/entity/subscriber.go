package entity

// SubscriberName is a display name that passed every name rule.
//
// The zero value is not a valid name; use ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw and returns it unchanged on success.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if errs := check("name", raw, subscriberNameRules); len(errs) > 0 {
		return SubscriberName{}, errs
	}

	return SubscriberName{value: raw}, nil
}

func (n SubscriberName) String() string {
	return n.value
}

// SubscriberEmail is an address that matches the subscriber email grammar.
// It is stored as given, without case folding.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw and returns it unchanged on success.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if errs := check("email", raw, subscriberEmailRules); len(errs) > 0 {
		return SubscriberEmail{}, errs
	}

	return SubscriberEmail{value: raw}, nil
}

func (e SubscriberEmail) String() string {
	return e.value
}

// IsZero reports whether e was never parsed.
func (e SubscriberEmail) IsZero() bool {
	return e.value == ""
}

// NewSubscriber is a subscription request whose name and email are both valid.
type NewSubscriber struct {
	Name  SubscriberName
	Email SubscriberEmail
}

// ParseNewSubscriber parses both fields without short-circuiting. On failure
// the error is a ValidationErrors holding the name failures followed by the
// email failures.
func ParseNewSubscriber(nameRaw, emailRaw string) (NewSubscriber, error) {
	var errs ValidationErrors
	errs = append(errs, check("name", nameRaw, subscriberNameRules)...)
	errs = append(errs, check("email", emailRaw, subscriberEmailRules)...)

	if err := errs.orNil(); err != nil {
		return NewSubscriber{}, err
	}

	return NewSubscriber{
		Name:  SubscriberName{value: nameRaw},
		Email: SubscriberEmail{value: emailRaw},
	}, nil
}
