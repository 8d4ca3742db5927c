// Package insteon holds the small value types shared by every PLM message:
// device Address, all-link database record flags (DbFlags) and Insteon
// message flags (MsgFlags).
package insteon
