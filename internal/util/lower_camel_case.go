/**
 * Copyright (c) 2019, The Shade Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package util

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func toLower(b byte) byte {
	if isUpper(b) {
		return b - 'A' + 'a'
	}
	return b
}

// LowerCamelCase converts an exported Go identifier into lower camel case. For example, it returns
// "totalQty" for "TotalQty". A leading run of upper-case letters is lowered as a whole so common
// initialisms keep their shape: "ID" becomes "id" and "URLPath" becomes "urlPath".
func LowerCamelCase(s string) string {
	sLen := len(s)
	if sLen == 0 {
		return s
	}

	// Find the end of the leading upper-case run.
	upperRun := 0
	for upperRun < sLen && isUpper(s[upperRun]) {
		upperRun++
	}

	if upperRun == 0 {
		return s
	}

	// When the run is followed by a lower-case letter, its last character starts the next word
	// ("URLPath" -> "url" + "Path") and stays upper.
	if upperRun < sLen && upperRun > 1 && isLower(s[upperRun]) {
		upperRun--
	}

	var buf StringBuilder
	buf.Grow(sLen)
	for i := 0; i < upperRun; i++ {
		buf.WriteByte(toLower(s[i]))
	}
	buf.WriteString(s[upperRun:])

	return buf.String()
}
