// Package export implements the two user actions available once a prediction
// is shown: copying a shareable line to the clipboard and saving the
// prediction as prediction.txt.
package export
