// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package globals

import (
	"fmt"
	"strings"
)

// polyfills are emitted after all registered code when enabled.
var polyfills = []string{
	`if (typeof Object.assign !== "function") {
  Object.assign = function(target) {
    for (var i = 1; i < arguments.length; i++) {
      var src = arguments[i];
      if (src != null) {
        for (var key in src) {
          if (Object.prototype.hasOwnProperty.call(src, key)) { target[key] = src[key]; }
        }
      }
    }
    return target;
  };
}`,
	`if (!Array.prototype.includes) {
  Array.prototype.includes = function(v) { return this.indexOf(v) !== -1; };
}`,
	`if (!String.prototype.startsWith) {
  String.prototype.startsWith = function(s, pos) { pos = pos || 0; return this.substr(pos, s.length) === s; };
}`,
	`if (typeof performance === "undefined") {
  var performance = {now: function() { return Date.now(); }};
}`,
}

// Render serializes the current state: variables in dependency order,
// functions, raw fragments, polyfills and the URL parameter container. The
// registry stays usable; rendering again reflects later additions.
func (r *Registry) Render() string {
	var b strings.Builder

	for _, name := range r.Vars() {
		if def := r.vars[name].definition; def != "" {
			fmt.Fprintf(&b, "var %s = %s;\n", name, def)
		} else {
			fmt.Fprintf(&b, "var %s;\n", name)
		}
	}

	for _, sig := range r.fncOrder {
		fmt.Fprintf(&b, "function %s {\n%s\n}\n", sig, r.fncs[sig])
	}

	for _, frag := range r.frags {
		b.WriteString(frag)
		b.WriteString("\n")
	}

	if r.polyfills {
		for _, p := range polyfills {
			b.WriteString(p)
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "var %s = %s;\n", URLParamsVar, r.urlParams)
	return b.String()
}

// String implements fmt.Stringer.
func (r *Registry) String() string {
	return r.Render()
}
