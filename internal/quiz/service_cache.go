package quiz

func (s *Service) getCachedController(quizID string) (*Controller, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	controller, ok := s.controllers[quizID]
	return controller, ok
}

// setCachedController keeps the first controller stored for a quiz so
// concurrent loads converge on one bank.
func (s *Service) setCachedController(quizID string, controller *Controller) *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.controllers[quizID]; ok {
		return existing
	}
	s.controllers[quizID] = controller
	return controller
}

func (s *Service) invalidateController(quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.controllers, quizID)
}
