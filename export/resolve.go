// Package export groups library assets by album and copies them into a
// folder tree with one directory per album.
package export

import "github.com/rwcarlsen/apextract/aplib"

// NoAlbum is the group receiving assets that belong to no titled album.
// The prefix makes it sort ahead of real album names.
const NoAlbum = "AAA_No_album"

// Groups is an ordered mapping from group name to the relative paths of
// the photos in it. Groups keep the order they were first created in and
// photos keep the order they were added in.
type Groups struct {
	names  []string
	photos map[string][]string

	// Dangling holds the assets whose link named an album without a title.
	// They are placed in the NoAlbum group.
	Dangling []aplib.AssetKey
}

func NewGroups() *Groups {
	return &Groups{photos: map[string][]string{}}
}

// Add appends photo to the named group, creating the group on first use.
func (g *Groups) Add(name, photo string) {
	if _, ok := g.photos[name]; !ok {
		g.names = append(g.names, name)
	}
	g.photos[name] = append(g.photos[name], photo)
}

// Names returns the group names in creation order.
func (g *Groups) Names() []string {
	return append([]string(nil), g.names...)
}

// Photos returns the photos of the named group.
func (g *Groups) Photos(name string) []string {
	return g.photos[name]
}

// Len returns the number of groups.
func (g *Groups) Len() int { return len(g.names) }

// PhotoCount returns the number of photos over all groups.
func (g *Groups) PhotoCount() int {
	n := 0
	for _, photos := range g.photos {
		n += len(photos)
	}
	return n
}

// Resolve places every asset in exactly one group: the title of the album
// it is linked to, or NoAlbum when it has no link or its album has no
// title. Assets are visited in order.
func Resolve(albums map[aplib.AlbumKey]string, assets []aplib.Asset, links map[aplib.AssetKey]aplib.AlbumKey) *Groups {
	g := NewGroups()
	for _, a := range assets {
		album, linked := links[a.Key]
		if !linked {
			g.Add(NoAlbum, a.Path)
			continue
		}

		title, ok := albums[album]
		if !ok {
			g.Dangling = append(g.Dangling, a.Key)
			g.Add(NoAlbum, a.Path)
			continue
		}
		g.Add(title, a.Path)
	}
	return g
}
