package notion

import (
	"github.com/devmaxde/notion-client/pkg/variant"
)

// SelectOption is a chosen select, multi-select or status option.
type SelectOption struct {
	ID    string
	Name  string
	Color Color
}

var decodeSelectOption = variant.ObjectOf(func(o variant.Object) (SelectOption, error) {
	var (
		s   SelectOption
		err error
	)
	if s.ID, err = variant.Field(o, "id", variant.String); err != nil {
		return SelectOption{}, err
	}
	if s.Name, err = variant.Field(o, "name", variant.String); err != nil {
		return SelectOption{}, err
	}
	if s.Color, err = variant.Field(o, "color", colors.Decode); err != nil {
		return SelectOption{}, err
	}
	return s, nil
})

func encodeSelectOption(s SelectOption) (any, error) {
	color, err := colors.Encode(s.Color)
	if err != nil {
		return nil, err
	}
	return variant.Fields{"id": s.ID, "name": s.Name, "color": color}, nil
}

// RelationRef points at a related page.
type RelationRef struct {
	ID ID
}

var decodeRelationRef = variant.ObjectOf(func(o variant.Object) (RelationRef, error) {
	id, err := variant.Field(o, "id", decodeID)
	return RelationRef{ID: id}, err
})

func encodeRelationRef(r RelationRef) (any, error) {
	return variant.Fields{"id": string(r.ID)}, nil
}

// UniqueID is an auto-incrementing identifier such as "TASK-42".
type UniqueID struct {
	Number Number
	Prefix variant.Optional[string]
}

var decodeUniqueID = variant.ObjectOf(func(o variant.Object) (UniqueID, error) {
	n, err := variant.Field(o, "number", decodeNumber)
	if err != nil {
		return UniqueID{}, err
	}
	prefix, err := variant.OptionalField(o, "prefix", variant.String)
	if err != nil {
		return UniqueID{}, err
	}
	return UniqueID{Number: n, Prefix: prefix}, nil
})

func encodeUniqueID(u UniqueID) (any, error) {
	n, err := encodeNumber(u.Number)
	if err != nil {
		return nil, err
	}
	f := variant.Fields{"number": n}
	return f, variant.SetOptional(f, "prefix", u.Prefix, variant.EncodeString)
}

func (u UniqueID) String() string {
	if p, ok := u.Prefix.Get(); ok {
		return p + "-" + u.Number.String()
	}
	return u.Number.String()
}

// VerificationState is the state of a wiki page verification.
type VerificationState string

const (
	VerificationVerified   VerificationState = "verified"
	VerificationUnverified VerificationState = "unverified"
)

var verificationStates = variant.NewEnum("state", VerificationVerified, VerificationUnverified)

// Verification is the payload of a verification property.
type Verification struct {
	State      VerificationState
	VerifiedBy variant.Optional[User]
	Date       variant.Optional[DateValue]
}

var decodeVerification = variant.ObjectOf(func(o variant.Object) (Verification, error) {
	var (
		v   Verification
		err error
	)
	if v.State, err = variant.Field(o, "state", verificationStates.Decode); err != nil {
		return Verification{}, err
	}
	if v.VerifiedBy, err = variant.OptionalField(o, "verified_by", decodeUser); err != nil {
		return Verification{}, err
	}
	if v.Date, err = variant.OptionalField(o, "date", decodeDateValue); err != nil {
		return Verification{}, err
	}
	return v, nil
})

func encodeVerification(v Verification) (any, error) {
	state, err := verificationStates.Encode(v.State)
	if err != nil {
		return nil, err
	}
	f := variant.Fields{"state": state}
	if err := variant.SetOptional(f, "verified_by", v.VerifiedBy, encodeUser); err != nil {
		return nil, err
	}
	if err := variant.SetOptional(f, "date", v.Date, encodeDateValue); err != nil {
		return nil, err
	}
	return f, nil
}
