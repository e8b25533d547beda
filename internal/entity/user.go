package entity

// Profile is the identity returned by the external auth provider after a
// completed sign-in. Only the auth collaborator produces these, everything
// else treats the resulting session as read-only context.
type Profile struct {
	UID        string `json:"uid"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	PictureURL string `json:"pictureUrl,omitempty"`
}
