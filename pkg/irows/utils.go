/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package irows

import "context"

// ScanJoined implements ReadJoined in terms of ReadByType and ReadChildren.
// Drivers without a native join (mem, bbolt) delegate to it; the sqlite
// driver compiles the same query to SQL instead.
//
// Subjects are collected before any child read: issuing ReadChildren from
// inside the ReadByType callback would nest one storage read inside another,
// which transactional drivers do not allow.
func ScanJoined(ctx context.Context, s IRowStorage, q JoinQuery, cb JoinedCallback) error {
	var subjects []Row
	err := s.ReadByType(ctx, q.SubjectType, func(subject Row) error {
		subjects = append(subjects, subject)
		return nil
	})
	if err != nil {
		return err
	}

	for _, subject := range subjects {
		jr := JoinedRow{
			Subject:  subject,
			Children: make([]JoinedChild, len(q.ChildTypes)),
		}
		for i, ct := range q.ChildTypes {
			first := true
			err := s.ReadChildren(ctx, subject.ID, ct, func(child Row) error {
				if first {
					jr.Children[i] = JoinedChild{Row: child, Ok: true}
					first = false
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		if err := cb(jr); err != nil {
			return err
		}
	}
	return nil
}
