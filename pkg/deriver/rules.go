package deriver

import "sync"

func hostPort(component string) Strategy {
	return HostSubstitute{Component: component, Substitution: &hostWithPort}
}

func schemeHost(component string) Strategy {
	return HostSubstitute{Component: component, Substitution: &hostWithPrefix}
}

func plainHost(component string) Strategy {
	return HostSubstitute{Component: component}
}

func allMounts(win WinReplacer, components ...string) Strategy {
	return MountUnion{Hosting: components, Mode: AllMounts, Win: win}
}

func firstMount(win WinReplacer, components ...string) Strategy {
	return MountUnion{Hosting: components, Mode: FirstMountOnly, Win: win}
}

func rulesFor(s Strategy, names ...string) []Rule {
	rules := make([]Rule, len(names))
	for i, n := range names {
		rules[i] = Rule{Name: n, Strategy: s}
	}
	return rules
}

// StackRules returns the rules for the HDP stack properties.
func StackRules() []Rule {
	var rules []Rule
	add := func(r ...Rule) { rules = append(rules, r...) }

	add(rulesFor(hostPort("NAMENODE"),
		"dfs.namenode.rpc-address",
		"dfs.http.address",
		"dfs.namenode.http-address",
		"dfs.https.address",
		"dfs.namenode.https-address",
		"hawq_dfs_url")...)
	add(rulesFor(hostPort("SECONDARY_NAMENODE"),
		"dfs.secondary.http.address",
		"dfs.namenode.secondary.http-address")...)
	add(rulesFor(hostPort("RESOURCEMANAGER"),
		"yarn.resourcemanager.resource-tracker.address",
		"yarn.resourcemanager.webapp.https.address",
		"yarn.resourcemanager.webapp.address",
		"yarn.resourcemanager.scheduler.address",
		"yarn.resourcemanager.address",
		"yarn.resourcemanager.admin.address",
		"hawq_rm_yarn_address",
		"hawq_rm_yarn_scheduler_address")...)
	add(rulesFor(hostPort("APP_TIMELINE_SERVER"),
		"yarn.timeline-service.webapp.address",
		"yarn.timeline-service.webapp.https.address",
		"yarn.timeline-service.address")...)
	add(rulesFor(hostPort("JOBTRACKER"),
		"mapred.job.tracker",
		"mapred.job.tracker.http.address")...)
	add(rulesFor(hostPort("HISTORYSERVER"),
		"mapreduce.history.server.http.address",
		"mapreduce.jobhistory.webapp.address",
		"mapreduce.jobhistory.address")...)

	add(rulesFor(schemeHost("NAMENODE"),
		"fs.default.name",
		"fs.defaultFS",
		"hbase.rootdir",
		"instance.volumes")...)
	add(rulesFor(schemeHost("HISTORYSERVER"), "yarn.log.server.url")...)
	add(rulesFor(schemeHost("OOZIE_SERVER"), "oozie.base.url")...)
	add(rulesFor(HostSubstitute{Component: "FALCON_SERVER", Substitution: &localhostHost}, "*.broker.url")...)

	add(rulesFor(plainHost("RESOURCEMANAGER"), "yarn.resourcemanager.hostname")...)
	add(rulesFor(plainHost("HIVE_SERVER"), "hive_hostname")...)
	add(rulesFor(plainHost("OOZIE_SERVER"), "oozie_hostname")...)
	add(rulesFor(plainHost("GANGLIA_SERVER"), "kafka.ganglia.metrics.host")...)
	add(rulesFor(plainHost("NAMENODE"), "hadoop_host")...)
	add(rulesFor(plainHost("NIMBUS"), "nimbus.host")...)
	add(rulesFor(plainHost("HAWQMASTER"), "hawq_master_address_host")...)
	add(rulesFor(plainHost("HAWQSTANDBY"), "hawq_standby_address_host")...)
	add(rulesFor(RangerHost{}, "RANGER_HOST")...)

	add(rulesFor(HostList{Masters: []string{"HIVE_METASTORE", "HIVE_SERVER"}}, "hive_master_hosts")...)
	add(rulesFor(HostList{Masters: []string{"NIMBUS"}, Format: ListLiteral}, "nimbus.seeds")...)
	add(rulesFor(HostList{Masters: []string{zooKeeperServer}, Format: ListLiteral}, "storm.zookeeper.servers")...)

	add(rulesFor(ZooKeeperQuorum{},
		"zookeeper.connect",
		"hive.zookeeper.quorum",
		"templeton.zookeeper.hosts",
		"hadoop.registry.zk.quorum",
		"hive.cluster.delegation.token.store.zookeeper.connectString",
		"instance.zookeeper.host")...)
	add(Rule{Name: "hbase.zookeeper.quorum", Filename: "hbase-site.xml", Strategy: HBaseZooKeeperQuorum{}})
	add(rulesFor(YarnZooKeeperAddress{}, "yarn.resourcemanager.zk-address")...)
	add(rulesFor(MetastoreURIs{}, "hive.metastore.uris")...)
	add(rulesFor(TempletonHiveProperties{}, "templeton.hive.properties")...)

	add(rulesFor(allMounts(WinFileURL, "NAMENODE"), "dfs.name.dir", "dfs.namenode.name.dir")...)
	add(rulesFor(allMounts(WinFileURL, "DATANODE"), "dfs.data.dir", "dfs.datanode.data.dir")...)
	add(rulesFor(allMounts(WinDefault, "NODEMANAGER"), "yarn.nodemanager.local-dirs", "yarn.nodemanager.log-dirs")...)
	add(rulesFor(allMounts(WinDefault, "TASKTRACKER", "NODEMANAGER"), "mapred.local.dir")...)
	add(rulesFor(allMounts(WinDefault, "KAFKA_BROKER"), "log.dirs")...)

	add(rulesFor(firstMount(WinFileURL, "SECONDARY_NAMENODE"), "fs.checkpoint.dir", "dfs.namenode.checkpoint.dir")...)
	add(rulesFor(firstMount(WinDefault, "APP_TIMELINE_SERVER"),
		"yarn.timeline-service.leveldb-timeline-store.path",
		"yarn.timeline-service.leveldb-state-store.path")...)
	add(rulesFor(firstMount(WinDefault, zooKeeperServer), "dataDir")...)
	add(rulesFor(firstMount(WinDoubleSlashes, zooKeeperServer), "zk_data_dir")...)
	add(rulesFor(firstMount(WinDefault, "OOZIE_SERVER"), "oozie_data_dir")...)
	add(Rule{Name: "storm.local.dir", Strategy: MountUnion{
		Hosting:     []string{"SUPERVISOR", "NIMBUS"},
		Mode:        FirstMountOnly,
		SlavesFirst: true,
	}})
	add(rulesFor(firstMount(WinDefault, "FALCON_SERVER"),
		"*.falcon.graph.storage.directory",
		"*.falcon.graph.serialize.path")...)

	add(rulesFor(GeneratedPassword{}, "ranger_admin_password")...)
	add(rulesFor(HiveDatabase{}, "hive_database")...)

	return rules
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry built from StackRules.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(StackRules()...)
	})
	return defaultRegistry
}
