// Copyright © 2019, Oleksandr Krykovliuk <k33nice@gmail.com>.
// Use of this source code is governed by the
// MIT license that can be found in the LICENSE file.

package patricia

import (
	"fmt"
	"io"
	"strings"
)

const indentUnit = "    "

// Fprint writes the edges of t to w, one per line, indented by depth:
//
//	|-- car (END)
//	    |-- d (END)
//	    |-- e (END)
//	|-- dog (END)
//
// Terminal edges carrying a non-nil value are written as "|-- label -> value".
func Fprint(w io.Writer, t Tree) error {
	var err error
	t.Each(func(n Node) {
		if err != nil {
			return
		}

		indent := strings.Repeat(indentUnit, n.Depth()-1)
		switch {
		case n.Terminal() && n.Value() != nil:
			_, err = fmt.Fprintf(w, "%s|-- %s -> %v\n", indent, n.Label(), n.Value())
		case n.Terminal():
			_, err = fmt.Fprintf(w, "%s|-- %s (END)\n", indent, n.Label())
		default:
			_, err = fmt.Fprintf(w, "%s|-- %s\n", indent, n.Label())
		}
	})
	return err
}

// Sprint is like Fprint but returns the rendering as a string.
func Sprint(t Tree) string {
	w := new(strings.Builder)
	_ = Fprint(w, t)
	return w.String()
}
