package types

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Sentinel errors shared across services and handlers. Handlers map these to
// HTTP status codes at the boundary; repositories translate driver errors
// (pgx.ErrNoRows, unique violations) into them so nothing above the
// repository layer sees driver types.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("incorrect username or password")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token has expired")
	ErrValidation      = errors.New("validation failed")
)

// Author is the embedded author record of a blog post. It is sourced from
// the authenticated principal at creation time, never from free-form input.
type Author struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName renders the author the way summaries expose it ("First Last",
// trimmed so a missing half does not leave stray whitespace).
func (a Author) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

type BlogPost struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// BlogPostSummary is the externally-exposed representation of a post.
type BlogPostSummary struct {
	ID        uuid.UUID `json:"id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary reduces a stored post to its public shape.
func (p *BlogPost) Summary() BlogPostSummary {
	return BlogPostSummary{
		ID:        p.ID,
		Author:    p.Author.FullName(),
		Title:     p.Title,
		CreatedAt: p.CreatedAt,
	}
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is the public representation of a user (no id-internal or
// credential fields).
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Principal is the authenticated identity attached to a request after a
// successful credential or token verification. It is a snapshot: a token
// carries the names as they were at issuance.
type Principal struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u *User) Principal() Principal {
	return Principal{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Claims is the JWT payload: the principal snapshot plus the registered
// claims (sub = username, iat, exp).
type Claims struct {
	User Principal `json:"user"`
	jwt.RegisteredClaims
}
