package reconcile

import "fmt"

// RecomputeBalance queries the cleared-or-pending balance for the
// session's account, derives the delta from the target when one is set,
// and caches the formatted message and the "balance met target" signal
// for presentation. It runs on every toggle and every refresh.
func (s *Session) RecomputeBalance() error {
	balance, err := QueryBalance(s.runner, s.doc, s.account)
	if err != nil {
		return err
	}
	s.balance = balance
	if s.target == nil {
		s.balanceOK = false
		s.balanceMsg = fmt.Sprintf("Cleared and pending balance: %s", balance)
		return nil
	}
	delta := s.target.Sub(balance)
	s.balanceOK = delta.IsZero()
	s.balanceMsg = fmt.Sprintf("Cleared and pending balance: %s   Target: %s   Delta: %s",
		balance, *s.target, delta)
	return nil
}

// Balance returns the last computed cleared-or-pending balance.
func (s *Session) Balance() Amount { return s.balance }
