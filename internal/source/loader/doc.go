// Package loader reads merge documents from disk, an fs.FS or HTTP.
package loader
