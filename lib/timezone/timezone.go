package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Shanghai")
	if err != nil {
		panic(err)
	}
}

// weibo serves CST timestamps ("今天 09:15", "05-23 12:34") regardless
// of where the crawler runs, so all calendar math has to happen in
// Asia/Shanghai or day-window filtering drifts near midnight.
func Now() time.Time {
	return time.Now().In(Location)
}
