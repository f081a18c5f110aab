package notion

import (
	sj "github.com/bitly/go-simplejson"

	"github.com/devmaxde/notion-client/pkg/variant"
)

// UserType distinguishes people from bots.
type UserType string

const (
	UserTypePerson UserType = "person"
	UserTypeBot    UserType = "bot"
)

var userTypes = variant.NewEnum("type", UserTypePerson, UserTypeBot)

// User is a Notion user reference. References embedded in pages often carry
// only the ID; every other field is optional.
type User struct {
	ID        ID
	Type      variant.Optional[UserType]
	Name      variant.Optional[string]
	AvatarURL variant.Optional[string]
	Person    variant.Optional[Person]
	Bot       variant.Optional[Bot]
}

// Person holds details of a human user.
type Person struct {
	Email variant.Optional[string]
}

// Bot holds details of an integration user.
type Bot struct {
	WorkspaceName variant.Optional[string]
}

var decodePerson = variant.ObjectOf(func(o variant.Object) (Person, error) {
	email, err := variant.OptionalField(o, "email", variant.String)
	return Person{Email: email}, err
})

var decodeBot = variant.ObjectOf(func(o variant.Object) (Bot, error) {
	name, err := variant.OptionalField(o, "workspace_name", variant.String)
	return Bot{WorkspaceName: name}, err
})

func decodeUser(doc *sj.Json, path variant.Path) (User, error) {
	o, err := variant.AsObject(doc, path)
	if err != nil {
		return User{}, err
	}
	if err := variant.Const(o, "object", "user"); err != nil {
		return User{}, err
	}
	var u User
	if u.ID, err = variant.Field(o, "id", decodeID); err != nil {
		return User{}, err
	}
	if u.Type, err = variant.OptionalField(o, "type", userTypes.Decode); err != nil {
		return User{}, err
	}
	if u.Name, err = variant.OptionalField(o, "name", variant.String); err != nil {
		return User{}, err
	}
	if u.AvatarURL, err = variant.OptionalField(o, "avatar_url", variant.String); err != nil {
		return User{}, err
	}
	if u.Person, err = variant.OptionalField(o, "person", decodePerson); err != nil {
		return User{}, err
	}
	if u.Bot, err = variant.OptionalField(o, "bot", decodeBot); err != nil {
		return User{}, err
	}
	return u, nil
}

func encodeUser(u User) (any, error) {
	f := variant.Fields{
		"object": "user",
		"id":     string(u.ID),
	}
	if err := variant.SetOptional(f, "type", u.Type, userTypes.Encode); err != nil {
		return nil, err
	}
	if err := variant.SetOptional(f, "name", u.Name, variant.EncodeString); err != nil {
		return nil, err
	}
	if err := variant.SetOptional(f, "avatar_url", u.AvatarURL, variant.EncodeString); err != nil {
		return nil, err
	}
	if err := variant.SetOptional(f, "person", u.Person, func(p Person) (any, error) {
		pf := variant.Fields{}
		return pf, variant.SetOptional(pf, "email", p.Email, variant.EncodeString)
	}); err != nil {
		return nil, err
	}
	if err := variant.SetOptional(f, "bot", u.Bot, func(b Bot) (any, error) {
		bf := variant.Fields{}
		return bf, variant.SetOptional(bf, "workspace_name", b.WorkspaceName, variant.EncodeString)
	}); err != nil {
		return nil, err
	}
	return f, nil
}
