// This file is part of spipwm.
//
// spipwm is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// spipwm is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with spipwm.  If not, see <https://www.gnu.org/licenses/>.


// Package database is a very simple way of storing structured and arbitrary
// entry types in a flat file.
//
// Use of a database requires starting a session with StartSession(), coupled
// with EndSession() once we're done. For example (error handling removed for
// clarity):
//
//	db, _ := database.StartSession(dbPath, database.ActivityCreating, initDBSession)
//	defer db.EndSession(true)
//
// The activity type says whether the database will be created if it does not
// exist (ActivityCreating) or whether it will be modified at all
// (ActivityReading). The initialisation function registers the entry types
// the session may encounter:
//
//	func initDBSession(db *database.Session) error {
//		return db.RegisterEntryType("duty", deserialiseDutyEntry)
//	}
//
// Each line of the file is an entry: a three digit key, the entry ID and then
// the serialised fields of the entry, separated by commas.
package database
