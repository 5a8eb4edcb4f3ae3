package deriver

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	hiveMetastore = "HIVE_METASTORE"

	newMySQLDatabase      = "New MySQL Database"
	existingMySQLDatabase = "Existing MySQL Database"

	setUGIOption = ",hive.metastore.execute.setugi=true"
)

var localhostURI = regexp.MustCompile(`//localhost:`)

// HiveMetastoreURIs returns "thrift://host:port,..." for every Hive Metastore
// host, with the port taken from ref. It returns an empty string when ref
// holds no port or no Metastore is placed.
func HiveMetastoreURIs(in Input, ref string) string {
	port, err := extractPort(ref)
	if err != nil {
		return ""
	}
	hosts := in.Topology.MasterHosts(hiveMetastore)
	uris := make([]string, len(hosts))
	for i, h := range hosts {
		uris[i] = "thrift://" + h + ":" + port
	}
	return strings.Join(uris, ",")
}

// MetastoreURIs derives hive.metastore.uris.
type MetastoreURIs struct{}

func (MetastoreURIs) Kind() Kind { return KindHostList }

func (MetastoreURIs) Components() []string { return []string{hiveMetastore} }

func (MetastoreURIs) Derive(in Input) (Patch, error) {
	uris, err := metastoreURIs(in)
	if err != nil {
		return nil, err
	}
	return setBoth(wholeValue.Replace(in.Template, uris)), nil
}

// TempletonHiveProperties rewrites the hive.metastore.uris entry embedded in
// templeton.hive.properties. Commas inside the URI list are escaped.
type TempletonHiveProperties struct{}

func (TempletonHiveProperties) Kind() Kind { return KindHostSubstitute }

func (TempletonHiveProperties) Components() []string { return []string{hiveMetastore} }

func (TempletonHiveProperties) Derive(in Input) (Patch, error) {
	uris, err := metastoreURIs(in)
	if err != nil {
		return nil, err
	}
	base := in.Template
	if localhostURI.MatchString(base) {
		base += setUGIOption
	}
	// every comma is escaped, not only the first
	return setBoth(metastoreURIsEntry.Replace(base, strings.ReplaceAll(uris, ",", `\,`))), nil
}

func metastoreURIs(in Input) (string, error) {
	ref := in.Dependencies.HiveMetastoreURIs
	if ref == "" {
		return "", fmt.Errorf("hive.metastore.uris: %w", ErrDependencyMissing)
	}
	if _, err := extractPort(ref); err != nil {
		return "", err
	}
	uris := HiveMetastoreURIs(in, ref)
	if uris == "" {
		return "", missing(hiveMetastore)
	}
	return uris, nil
}

// HiveDatabase hides the managed MySQL choice when it cannot be offered and
// moves a property still pointing at it to an existing database.
type HiveDatabase struct{}

func (HiveDatabase) Kind() Kind { return KindLiteral }

func (HiveDatabase) Components() []string { return nil }

func (HiveDatabase) Derive(in Input) (Patch, error) {
	idx := -1
	for i, o := range in.Options {
		if o.DisplayName == newMySQLDatabase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("no %q option: %w", newMySQLDatabase, ErrNotApplicable)
	}
	d := in.Dependencies
	hidden := !d.AlwaysEnableManagedMySQLForHive && !d.OnServiceConfigsPage && !d.ManagedMySQLForHiveEnabled
	return func(p *ConfigProperty) {
		if hidden && p.Value == newMySQLDatabase {
			p.Value = existingMySQLDatabase
		}
		if idx < len(p.Options) {
			p.Options[idx].Hidden = hidden
		}
	}, nil
}
