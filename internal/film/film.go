// Package film holds the placeholder catalogue shown on the index page.
package film

type Film struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Placeholders returns a fresh copy of the fixed three-film list.
func Placeholders() []Film {
	return []Film{
		{Name: "The Godfather", Description: "The aging patriarch of an organized crime dynasty hands control to his reluctant son."},
		{Name: "Spirited Away", Description: "A girl wanders into a world of spirits and must work in a bathhouse to free her parents."},
		{Name: "Blade Runner", Description: "A blade runner hunts down four replicants who have returned to Earth."},
	}
}
