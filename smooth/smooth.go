package smooth

import filter "github.com/milosgajdos/go-velocity"

// RTS is Rauch Tung Striebel optimal filter smoother
type RTS interface {
	// filter.Smoother is filter smoother
	filter.Smoother
}
