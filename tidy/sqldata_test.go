package tidy

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
	_ "modernc.org/sqlite"
)

func Test110QueryResultsOverlayAsColumns(t *testing.T) {

	cv.Convey(`Given a sqlite table, QueryData should return one list per column, and those columns should be usable as tidy data`, t, func() {
		ctx := context.Background()
		dsn := filepath.Join(t.TempDir(), "t.db")
		db, err := OpenData(ctx, "SQLite", dsn)
		panicOn(err)
		defer db.Close()

		_, err = db.ExecContext(ctx, `CREATE TABLE obs (id INTEGER, name TEXT, score REAL)`)
		panicOn(err)
		_, err = db.ExecContext(ctx, `INSERT INTO obs VALUES (1, 'a', 0.5), (2, 'b', NULL)`)
		panicOn(err)

		data, err := QueryData(ctx, db, `SELECT id, name, score FROM obs ORDER BY id`)
		panicOn(err)
		cv.So(data.SexpString(nil), cv.ShouldEqual, `(list id: (list 1 2) name: (list "a" "b") score: (list 0.5 null))`)

		ev := NewEvaluator()
		res, err := ev.EvalTidy(mustParse(`(length name)`), data, nil)
		panicOn(err)
		cv.So(res, cv.ShouldResemble, &SexpInt{Val: 2})

		recs, err := Records(data)
		panicOn(err)
		cv.So(recs.At(1).Val.SexpString(nil), cv.ShouldEqual, `(list id: 2 name: "b" score: null)`)

		_, err = Records(MakeNamedList([]string{"a", "b"}, []Sexp{MakeList(&SexpInt{Val: 1}), MakeList()}))
		cv.So(err, cv.ShouldNotBeNil)
	})

	cv.Convey(`Given the sql builtins, a script should be able to open, write, query and reshape a database`, t, func() {
		dsn := filepath.Join(t.TempDir(), "s.db")
		ev := NewEvaluator()
		res, err := ev.EvalString(fmt.Sprintf(`
(<- db (sql_open "sqlite" %q))
(sql_exec db "CREATE TABLE kv (k TEXT, v INTEGER)")
(list
  (sql_exec db "INSERT INTO kv VALUES (?, ?), (?, ?)" "x" 1 "y" 2)
  (sql_records (sql_query db "SELECT k, v FROM kv WHERE v > ? ORDER BY k" 1)))`, dsn), nil)
		panicOn(err)
		cv.So(res.SexpString(nil), cv.ShouldEqual, `(list 2 (list (list k: "y" v: 2)))`)
	})

	cv.Convey(`Given friendly driver names, DriverName should map them and pass unknown names through`, t, func() {
		cv.So(DriverName("Postgres"), cv.ShouldEqual, "postgres")
		cv.So(DriverName("MariaDB"), cv.ShouldEqual, "mysql")
		cv.So(DriverName("sqlite"), cv.ShouldEqual, "sqlite")
		drivers := GetSortedDrivers()
		cv.So(drivers[0], cv.ShouldEqual, "Firebird SQL")
	})
}
