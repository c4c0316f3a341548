package models

import (
	"fmt"
	"time"
)

// MediaItem is a photo managed by the TedTagger backend.
//
// The client never mutates an item; it only tracks membership in
// selection and loupe sequences.
type MediaItem struct {
	UniqueID          string   `json:"uniqueId"`
	GoogleMediaItemID string   `json:"googleMediaItemId,omitempty"`
	FileName          string   `json:"fileName"`
	CreationTime      string   `json:"creationTime,omitempty"`
	URL               string   `json:"url,omitempty"`
	MimeType          string   `json:"mimeType,omitempty"`
	Width             int      `json:"width,omitempty"`
	Height            int      `json:"height,omitempty"`
	KeywordNodeIDs    []string `json:"keywordNodeIds,omitempty"`
}

// Validate reports whether the item carries an identifier.
func (m MediaItem) Validate() error {
	if m.UniqueID == "" {
		return fmt.Errorf("media item %q has no unique id", m.FileName)
	}
	return nil
}

// MediaItemIDs returns the unique ids of items in order.
func MediaItemIDs(items []MediaItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.UniqueID
	}
	return ids
}

// Keyword is a tag label known to the backend.
type Keyword struct {
	KeywordID string `json:"keywordId"`
	Label     string `json:"label"`
	Type      string `json:"type,omitempty"`
}

// KeywordNode places a [Keyword] in the keyword tree.
type KeywordNode struct {
	NodeID      string   `json:"nodeId"`
	KeywordID   string   `json:"keywordId"`
	ParentID    string   `json:"parentNodeId,omitempty"`
	ChildrenIDs []string `json:"childrenIds,omitempty"`
}

// KeywordData is the backend keyword tree.
type KeywordData struct {
	Keywords          []Keyword     `json:"keywords"`
	KeywordNodes      []KeywordNode `json:"keywordNodes"`
	KeywordRootNodeID string        `json:"keywordRootNodeId"`
}

// Labels resolves the keyword labels tagged on item, in tag order.
// Nodes or keywords the tree does not know are skipped.
func (d KeywordData) Labels(item MediaItem) []string {
	labels := make(map[string]string, len(d.Keywords))
	for _, k := range d.Keywords {
		labels[k.KeywordID] = k.Label
	}
	nodes := make(map[string]string, len(d.KeywordNodes))
	for _, n := range d.KeywordNodes {
		nodes[n.NodeID] = n.KeywordID
	}

	var out []string
	for _, nodeID := range item.KeywordNodeIDs {
		if label, ok := labels[nodes[nodeID]]; ok {
			out = append(out, label)
		}
	}
	return out
}

// Takeout is a Google Takeout export the backend can import.
type Takeout struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	AlbumName string `json:"albumName,omitempty"`
	Path      string `json:"path,omitempty"`
}

// PhotoLayout is the presentation mode of the library.
type PhotoLayout int

const (
	Grid PhotoLayout = iota
	Loupe
	Survey
)

func (l PhotoLayout) String() string {
	switch l {
	case Grid:
		return "grid"
	case Loupe:
		return "loupe"
	case Survey:
		return "survey"
	default:
		return fmt.Sprintf("PhotoLayout(%d)", int(l))
	}
}

// LoginState is the visible outcome of session resolution.
type LoginState int

const (
	Resolving LoginState = iota
	LoggedIn
	LoggedOut
)

func (s LoginState) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case LoggedIn:
		return "logged in"
	case LoggedOut:
		return "logged out"
	default:
		return fmt.Sprintf("LoginState(%d)", int(s))
	}
}

// Session is the persisted Google session.
//
// A zero TokenExpiration means no expiry is stored.
type Session struct {
	AccessToken     string
	TokenExpiration time.Time
	GoogleID        string
}

// IsLoggedIn reports whether a non-expired token is held at now.
func (s Session) IsLoggedIn(now time.Time) bool {
	if s.AccessToken == "" || s.TokenExpiration.IsZero() {
		return false
	}
	return !now.After(s.TokenExpiration)
}
