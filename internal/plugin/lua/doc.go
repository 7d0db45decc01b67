// Package lua runs user scripts against the preference store.
//
// Scripts see a global table named indent:
//
//	indent.get(language)                        -> {tab_width=, use_spaces=} | nil, err
//	indent.set(language, tab_width[, spaces])   -> true | nil, err
//	indent.reset(language)                      -> true | nil, err
//	indent.languages()                          -> sorted display names
//	indent.resolve(name)                        -> id | nil
//	indent.apply(language...)
//	indent.apply_all()
//
// language is either a display name or an id. Setting a preference does not
// touch open documents until apply or apply_all is called:
//
//	indent.set("Python", 2, true)
//	indent.set("make", 8, false)
//	indent.apply("python", "make")
//
// The runtime is sandboxed: only the base, table, string and math libraries
// are opened, file loading functions are removed, and print goes to the
// plugin log.
package lua
