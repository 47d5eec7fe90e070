// Package mongostore implements the persistence ports of pkg/auth and
// svc/catalog on MongoDB.
//
// Collections and indexes:
//
//	users      email (unique), googleId (unique, sparse)
//	templates  category, text(name, description)
//	favorites  {userId, templateId} (unique)
//
// Ids are ObjectIDs rendered as hex strings. Malformed ids behave like
// unknown ones.
package mongostore
