// Package student содержит доменную модель студента.
//
// Студент не хранит коллекций заявок: всё, что зависит от заявок
// (число активных заявок, наличие подтверждённого места), вычисляется
// через порт чтения AppReadPort. Это позволяет тестировать правила
// допуска без хранилища:
//
//	stats := student.PlacementStats{StudentID: s.ID, Active: 2}
//	if err := s.AssertCanApply(posting, stats, today); err != nil {
//	    return err
//	}
//
// # Правила допуска
//
//   - 1-2 курс: только BASIC.
//   - 3-4 курс: BASIC, INTERMEDIATE, ADVANCED.
//   - Не более MaxActiveApplications активных заявок.
//   - После подтверждения места новые заявки запрещены.
package student
