package clipper

// validateClipType reports whether clipType is one of the defined ClipType values.
func validateClipType(clipType ClipType) error {
	if clipType > Xor {
		return ErrInvalidClipType
	}
	return nil
}

// validateFillRule reports whether fillRule is one of the defined FillRule values.
func validateFillRule(fillRule FillRule) error {
	if fillRule > Negative {
		return ErrInvalidFillRule
	}
	return nil
}

// validateJoinType reports whether joinType is one of the defined JoinType values.
func validateJoinType(joinType JoinType) error {
	if joinType > JoinBevel {
		return ErrInvalidJoinType
	}
	return nil
}

// validateEndType reports whether endType is one of the defined EndType values.
func validateEndType(endType EndType) error {
	if endType > OpenButt {
		return ErrInvalidEndType
	}
	return nil
}

// filterValidPaths drops paths with fewer than minPoints points, returning the
// kept paths and the number dropped.
func filterValidPaths(paths Paths64, minPoints int) (Paths64, int) {
	if len(paths) == 0 {
		return paths, 0
	}
	kept := make(Paths64, 0, len(paths))
	dropped := 0
	for _, p := range paths {
		if len(p) >= minPoints {
			kept = append(kept, p)
		} else {
			dropped++
		}
	}
	return kept, dropped
}
