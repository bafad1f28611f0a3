// Package cupx reads and writes CUPX containers.
//
// A CUPX container is two ZIP archives concatenated in a single byte
// stream: a pictures archive (entries under "pics/", possibly empty)
// followed by a points archive holding a single "POINTS.CUP" waypoint
// file. The boundary between the archives is not recorded anywhere;
// it is recovered by scanning backward for the two trailing
// end-of-central-directory records.
//
// # Reading
//
//	r, warnings, err := cupx.OpenReader("waypoints.cupx")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	for _, w := range warnings {
//	    log.Println(w)
//	}
//	fmt.Println("waypoints:", len(r.Waypoints()))
//	for name := range r.PictureNames() {
//	    fmt.Println("picture:", name)
//	}
//
// In-memory or remote data works through NewReader with any Source
// (*bytes.Reader, or the http subpackage's range-request Source).
//
// # Writing
//
//	w := cupx.NewWriter(cupFile).
//	    AddPicture("airport.jpg", imageBytes).
//	    AddPictureFile("tower.jpg", "images/tower.jpg")
//	if err := w.WriteFile("out.cupx"); err != nil {
//	    return err
//	}
//
// A container written with no pictures still carries a valid empty
// pictures archive, so readers always find two archives.
package cupx
