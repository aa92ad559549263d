/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import (
	"strings"

	"github.com/glassvm/glassvm/types"
)

// GoStringFromJavaByteArray converts a Java byte array to a Go string by
// truncating each signed byte to its low 8 bits. Backs the
// java/lang/String(byte[]) constructor native in gfunction.
func GoStringFromJavaByteArray(jbarr []types.JavaByte) string {
	var sb strings.Builder
	for _, b := range jbarr {
		sb.WriteByte(byte(b))
	}
	return sb.String()
}

// JavaByteArrayFromGoString converts a Go string to a Java byte array one
// Java byte per byte of the string's UTF-8 encoding (so one per character
// only for ASCII text).
// Backs the java/lang/String.getBytes() native in gfunction.
func JavaByteArrayFromGoString(str string) []types.JavaByte {
	jbarr := make([]types.JavaByte, len(str))
	for i := 0; i < len(str); i++ {
		jbarr[i] = types.JavaByte(str[i])
	}
	return jbarr
}
