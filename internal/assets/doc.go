// Package assets provides stylesheets for standalone HTML pages.
//
// # Loader Architecture
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles compiled into the binary
//	    ├── StyleDir          - styles from a directory on disk
//	    └── StyleResolver     - custom directory first, embedded fallback
//
// Every loader lists what it can load. A custom directory holds
// {dir}/styles/{name}.css and may override a built-in name.
//
// # Security
//
// Style names are validated so they cannot carry path components. StyleDir
// reads through an os.Root confined to its directory and caps file size.
package assets
