// Package pongo renders template generators with pongo2 (Django syntax).
//
// Besides the pongo2 built-ins, templates get these filters:
//
//	trim        strip surrounding whitespace
//	upperfirst  upper case the first letter
//	lowerfirst  lower case the first letter
//	quote       Go/JSON style double quoted string literal
//	sanitize    HTML with unsafe markup removed
//	plaintext   text content with every tag removed
package pongo
